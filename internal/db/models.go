package db

import (
	"time"
)

type ClientStorage struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
