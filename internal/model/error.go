package model

import "errors"

var ErrorUnauthorized = errors.New("unauthorized")
var ErrorMessageRequired = errors.New("message required")
var ErrorMediaResolution = errors.New("resolving media reference")
var ErrorMediaFetch = errors.New("fetching media")
