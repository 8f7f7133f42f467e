// Package client runs one game on one terminal connection.
package client

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/display"
	"github.com/tomz197/reflex/internal/draw"
	"github.com/tomz197/reflex/internal/game"
	gameconfig "github.com/tomz197/reflex/internal/game/config"
	"github.com/tomz197/reflex/internal/input"
	"github.com/tomz197/reflex/internal/rtos"
)

// Priorities of the connection tasks relative to the game tasks.
const (
	priorityKeys    = 0 // Stands in for the button interrupts
	priorityPainter = game.PriorityAnnouncer + 1
)

// Options configures the client.
type Options struct {
	TermSizeFunc   draw.TermSizeFunc
	Tick           time.Duration
	Seed           int64
	AnnounceAlways bool
	FPS            int
	ID             string
	Logger         zerolog.Logger
}

// OptionsFromEnv reads the process settings shared by all front ends.
func OptionsFromEnv() Options {
	return Options{
		Tick:           config.GetEnvDuration("REFLEX_TICK", gameconfig.DefaultTick),
		Seed:           config.GetEnvInt64("REFLEX_SEED", 0),
		AnnounceAlways: config.GetEnvBool("REFLEX_ANNOUNCE_ALWAYS", false),
		FPS:            config.GetEnvInt("REFLEX_FPS", 30),
	}
}

// Client handles rendering and input for a single connection.
type Client struct {
	game     *game.Game
	panel    *display.Panel
	buttons  *input.Buttons
	light    *input.LightDial
	terminal *display.Terminal
	stream   *input.Stream
	log      zerolog.Logger
}

// New creates a client reading keys from r and drawing to w.
func New(r *bufio.Reader, w io.Writer, opts Options) *Client {
	if opts.Tick <= 0 {
		opts.Tick = gameconfig.DefaultTick
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	panel := display.NewPanel()
	buttons := input.NewButtons()
	light := input.NewLightDial(gameconfig.LightBright)

	g := game.New(game.Options{
		Driver:         panel,
		Inputs:         buttons,
		Sensor:         light,
		Clock:          rtos.TickClock{Tick: opts.Tick},
		Rand:           rand.New(rand.NewSource(seed)),
		ID:             opts.ID,
		Logger:         opts.Logger,
		AnnounceAlways: opts.AnnounceAlways,
	})

	c := &Client{
		game:    g,
		panel:   panel,
		buttons: buttons,
		light:   light,
		stream:  input.StartStream(r),
		log:     opts.Logger.With().Str("game", g.ID).Logger(),
	}
	c.terminal = display.NewTerminal(panel, w, opts.TermSizeFunc, g.Status, opts.FPS)
	c.log.Debug().Int64("seed", seed).Dur("tick", opts.Tick).Msg("client created")
	return c
}

// Game returns the game played by this client.
func (c *Client) Game() *game.Game {
	return c.game
}

// Run plays until the player quits, the input ends, or ctx is done. Quitting
// is not an error.
func (c *Client) Run(ctx context.Context) error {
	keys := rtos.Task{
		Name:     "keys",
		Priority: priorityKeys,
		Run: func(ctx context.Context) error {
			return input.Pump(ctx, c.stream, input.Board{Buttons: c.buttons, Light: c.light})
		},
	}
	painter := rtos.Task{Name: "painter", Priority: priorityPainter, Run: c.terminal.Run}

	err := c.game.Run(ctx, keys, painter)
	if errors.Is(err, input.ErrQuit) {
		c.log.Info().Msg("player quit")
		return nil
	}
	return err
}
