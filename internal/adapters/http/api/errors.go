package api

import "errors"

// ErrRateLimited is reported to clients that exceeded their request budget.
var ErrRateLimited = errors.New("too many requests from this client, please try again later")
