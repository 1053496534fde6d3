package webtoken

import "github.com/op/go-logging"

var log = logging.MustGetLogger("webtoken")
