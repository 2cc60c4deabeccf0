package dictionary

import "errors"

var ErrEmptyResponse = errors.New("empty response body")

var ErrSessionUsed = errors.New("session already started")

var ErrReconnectExhausted = errors.New("reconnect attempts exhausted")

var ErrChannelOverflowed = errors.New("channel overflowed")

var ErrParseAmount = errors.New("parse string as decimal")

var ErrFractionalBaseUnits = errors.New("amount has more decimals than the token")

var ErrConfigFileNotFound = errors.New("config file not found")

var ErrNoResult = errors.New("response has no result field")
