package sqlstore

import "github.com/goliatone/go-easyjob/core"

var (
	_ core.CredentialStore = (*CredentialStore)(nil)
	_ core.CredentialStore = (*CachedCredentialStore)(nil)
)
