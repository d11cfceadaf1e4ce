package router

import "testing"

type fakeAuth struct{ authed bool }

func (f *fakeAuth) IsAuthenticated() bool { return f.authed }

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		authed   bool
		wantView string
		want     Decision
	}{
		{name: "Home Public", path: "/", wantView: ViewHome, want: Allow},
		{name: "Login Public", path: "/login", wantView: ViewLogin, want: Allow},
		{name: "Login While Authenticated", path: "/login", authed: true, wantView: ViewHome, want: RedirectHome},
		{name: "Profile Requires Auth", path: "/profile", wantView: ViewLogin, want: RedirectLogin},
		{name: "Profile Authenticated", path: "/profile", authed: true, wantView: ViewProfile, want: Allow},
		{name: "Playlists Requires Auth", path: "/playlists/", wantView: ViewLogin, want: RedirectLogin},
		{name: "Recommendations Authenticated", path: "/recommendations/Japan", authed: true, wantView: ViewRecommendations, want: Allow},
		{name: "Recommendations Missing Country", path: "/recommendations/", authed: true, wantView: ViewHome, want: RedirectHome},
		{name: "Unknown Path", path: "/nowhere", authed: true, wantView: ViewHome, want: RedirectHome},
		{name: "Empty Path", path: "", wantView: ViewHome, want: Allow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&fakeAuth{authed: tc.authed})
			m, d := r.Resolve(tc.path)
			if d != tc.want {
				t.Errorf("expected %s, got %s", tc.want, d)
			}
			if m.Route.Name != tc.wantView {
				t.Errorf("expected view %s, got %s", tc.wantView, m.Route.Name)
			}
		})
	}
}

func TestNavigate(t *testing.T) {
	t.Run("Records Current And Notifies", func(t *testing.T) {
		auth := &fakeAuth{authed: true}
		r := New(auth)

		var seen []string
		r.OnNavigate(func(m Match) { seen = append(seen, m.Route.Name) })

		if got := r.Navigate("/recommendations/Brazil"); got != "/recommendations/Brazil" {
			t.Errorf("unexpected path %s", got)
		}
		if r.Current().Param("country") != "Brazil" {
			t.Errorf("expected country param, got %v", r.Current().Params)
		}

		auth.authed = false
		if got := r.Navigate("/playlists"); got != LoginPath {
			t.Errorf("expected redirect to login, got %s", got)
		}
		if len(seen) != 2 || seen[1] != ViewLogin {
			t.Errorf("unexpected notifications %v", seen)
		}
	})

	t.Run("Starts At Home", func(t *testing.T) {
		if got := New(&fakeAuth{}).Current().Route.Name; got != ViewHome {
			t.Errorf("expected home, got %s", got)
		}
	})

	t.Run("RecommendationsPath", func(t *testing.T) {
		if got := RecommendationsPath("Japan"); got != "/recommendations/Japan" {
			t.Errorf("unexpected path %s", got)
		}
	})
}
