package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOffersDay(t *testing.T) {
	svc := Service{AvailableDays: []string{"monday", "FRI", "x"}}
	assert.True(t, svc.OffersDay(time.Monday))
	assert.True(t, svc.OffersDay(time.Friday))
	assert.False(t, svc.OffersDay(time.Tuesday))

	assert.True(t, (&Service{}).OffersDay(time.Sunday))
}
