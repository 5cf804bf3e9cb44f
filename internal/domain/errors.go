package domain

import "errors"

var ErrCommitNotFound = errors.New("commit identifier not found")
