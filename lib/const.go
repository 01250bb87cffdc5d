package lib

import "errors"

// ErrorUuidInvalidSize while generating uuid byte-string: Allocuuid
// returns it for an odd size, Newuuid for an odd size below 8.
var ErrorUuidInvalidSize = errors.New("uuid.invalidsize")
