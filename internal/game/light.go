package game

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomz197/reflex/internal/game/config"
	"github.com/tomz197/reflex/internal/rtos"
)

// Brightness of the room as last announced by the LightClassifier.
type Brightness int

const (
	Bright Brightness = iota
	Dark
	unknownBrightness
)

func (b Brightness) String() string {
	switch b {
	case Bright:
		return "bright"
	case Dark:
		return "dark"
	}
	return "unknown"
}

// LightEvents carries brightness changes from the classifier to Logic. The
// two cells are independent: each has one producer and one consumer.
type LightEvents struct {
	Dark   rtos.EventCell
	Bright rtos.EventCell
}

// Classify maps a raw reading to a Brightness.
func Classify(reading int) Brightness {
	if reading < config.LightThreshold {
		return Dark
	}
	return Bright
}

// LightClassifier samples the sensor and announces changes.
type LightClassifier struct {
	sensor Sensor
	events *LightEvents
	clock  rtos.Clock
	log    zerolog.Logger
	last   Brightness
}

// NewLightClassifier creates a classifier that has not sampled yet, so its
// first sample always posts an event.
func NewLightClassifier(sensor Sensor, events *LightEvents, clock rtos.Clock, log zerolog.Logger) *LightClassifier {
	return &LightClassifier{
		sensor: sensor,
		events: events,
		clock:  clock,
		log:    log,
		last:   unknownBrightness,
	}
}

// Sample reads the sensor once and posts an event if the classification
// changed. It returns the current classification.
func (c *LightClassifier) Sample() Brightness {
	b := Classify(c.sensor.ReadLightLevel())
	if b == c.last {
		return b
	}
	switch b {
	case Dark:
		c.events.Dark.Set()
	case Bright:
		c.events.Bright.Set()
	}
	c.log.Debug().Stringer("brightness", b).Msg("light changed")
	c.last = b
	return b
}

// Run samples every config.SensorInterval ticks until ctx is done.
func (c *LightClassifier) Run(ctx context.Context) error {
	for {
		c.Sample()
		if err := c.clock.Sleep(ctx, config.SensorInterval); err != nil {
			return err
		}
	}
}
