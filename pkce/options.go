package pkce

import "golang.org/x/oauth2"

// AuthCodeOptions returns the parameters to add to the authorization URL.
//
//	url := cfg.AuthCodeURL(state, pair.AuthCodeOptions()...)
func (p Pair) AuthCodeOptions() []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", string(p.Challenge)),
		oauth2.SetAuthURLParam("code_challenge_method", string(p.Method)),
	}
}

// ExchangeOptions returns the parameters to add to the token request.
func (p Pair) ExchangeOptions() []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_verifier", string(p.Verifier)),
	}
}
