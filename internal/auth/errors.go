package auth

import "errors"

// ErrNoKeyFile is returned by KeySet.Load/Save when no backing path was
// configured (the server was started without --oplist or --whitelist).
var ErrNoKeyFile = errors.New("no key file configured")

// ErrNoOplist is the auth-subsystem error surfaced to a caller running an
// oplist command when the server has no operator key file configured.
var ErrNoOplist = errors.New("no oplist configured")

// ErrNoWhitelist mirrors ErrNoOplist for whitelist commands.
var ErrNoWhitelist = errors.New("no whitelist configured")
