package domain

// LinkedIdentity is the normalized external-provider profile obtained from a
// completed OAuth code exchange. It is ephemeral: it lives in memory between
// the exchange and finalize, is folded into the profile, and the provider
// access token is not retained beyond the one profile read.
type LinkedIdentity struct {
	ProviderUserID string
	Handle         string
	Followers      int64
	AvatarURL      string
	Bio            string
	AccessToken    string
}
