package commands

import "errors"

var errPassphraseRequired = errors.New("passphrase required (-p)")
