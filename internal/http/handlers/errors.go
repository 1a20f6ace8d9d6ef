package handlers

import "errors"

var errEmptyBody = errors.New("message body required")
