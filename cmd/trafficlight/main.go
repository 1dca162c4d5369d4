// Command trafficlight simulates a pedestrian crossing in the
// terminal. The signal phases are a four-state machine: timed
// transitions cycle green, yellow, red, and a walk phase on their
// own, and the pedestrian button (space) cuts the green short or,
// during red, starts the walk phase early.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	dotenv "github.com/joho/godotenv"
	envconf "github.com/sethvargo/go-envconfig"

	"github.com/comalice/microfsm"
)

const evButton microfsm.EventID = 1

type AppConfig struct {
	Env      string        `env:"TRAFFIC_ENV, default=dev"`
	LogFile  string        `env:"TRAFFIC_LOG, default=trafficlight.log"`
	Green    time.Duration `env:"TRAFFIC_GREEN, default=8s"`
	Yellow   time.Duration `env:"TRAFFIC_YELLOW, default=2s"`
	Red      time.Duration `env:"TRAFFIC_RED, default=6s"`
	Walk     time.Duration `env:"TRAFFIC_WALK, default=5s"`
	Mute     bool          `env:"TRAFFIC_MUTE, default=false"`
	TickRate time.Duration `env:"TRAFFIC_TICK, default=33ms"`
}

type app struct {
	screen  tcell.Screen
	logger  *slog.Logger
	machine *microfsm.Machine

	phase    string
	tickRate time.Duration

	width, height int

	audioInit bool
	mute      bool
}

func newApp(cfg AppConfig, logger *slog.Logger) (*app, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	a := &app{
		screen:   screen,
		logger:   logger,
		tickRate: cfg.TickRate,
		mute:     cfg.Mute,
	}
	a.width, a.height = screen.Size()

	if !a.mute {
		if err := a.initAudio(); err != nil {
			// Non-fatal, the light works without sound.
			logger.Warn("audio initialization failed", "error", err)
		}
	}

	m, err := buildLight(cfg, logger, a.setPhase, microfsm.WithLogger(logger))
	if err != nil {
		screen.Fini()
		return nil, err
	}

	a.machine = m
	return a, nil
}

// buildLight wires the signal machine: a timed cycle through green,
// yellow, red, and walk, plus the button edges. onPhase runs whenever
// a phase is entered; opts are passed through to microfsm.New.
func buildLight(cfg AppConfig, logger *slog.Logger, onPhase func(name string, freq float64), opts ...microfsm.Option) (*microfsm.Machine, error) {
	green := &microfsm.State{Name: "green", OnEnter: func() { onPhase("green", 880) }}
	yellow := &microfsm.State{Name: "yellow", OnEnter: func() { onPhase("yellow", 660) }}
	red := &microfsm.State{Name: "red", OnEnter: func() { onPhase("red", 440) }}
	walk := &microfsm.State{Name: "walk", OnEnter: func() { onPhase("walk", 1320) }}

	m, err := microfsm.New(green, opts...)
	if err != nil {
		return nil, err
	}
	m.AddTimedTransition(green, yellow, cfg.Green, nil)
	m.AddTimedTransition(yellow, red, cfg.Yellow, nil)
	m.AddTimedTransition(red, walk, cfg.Red, nil)
	m.AddTimedTransition(walk, green, cfg.Walk, nil)

	// The button cuts the green short; during red it starts the walk
	// phase early. In other phases it goes unmatched and is dropped.
	m.AddTransition(green, yellow, evButton, func() {
		logger.Info("pedestrian cut the green short")
	})
	m.AddTransition(red, walk, evButton, nil)

	return m, nil
}

func (a *app) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		a.audioInit = true
	}
	return err
}

// playTone beeps at freq for a phase change. Each phase has its own
// pitch so the light is usable without looking.
func (a *app) playTone(freq float64) {
	if !a.audioInit {
		return
	}

	sampleRate := beep.SampleRate(44100)
	duration := sampleRate.N(120 * time.Millisecond)
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(duration, sine))
}

func (a *app) setPhase(name string, freq float64) {
	a.phase = name
	a.logger.Info("phase change", "phase", name)
	a.playTone(freq)
}

func (a *app) run() {
	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- a.screen.PollEvent()
		}
	}()

	ticker := time.NewTicker(a.tickRate)
	defer ticker.Stop()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}
		case <-ticker.C:
			a.machine.Poll()
			a.draw()
		}
	}
}

// handleInput reacts to one terminal event. It runs on the same
// goroutine as the poll loop, so triggering the machine here is safe.
func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
			a.logger.Debug("button pressed")
			a.machine.Trigger(evButton)
		}
	case *tcell.EventResize:
		a.width, a.height = a.screen.Size()
		a.screen.Sync()
	}
	return true
}

var (
	lampOff    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(70, 70, 70))
	housing    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(140, 140, 140))
	helpStyle  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(120, 120, 120))
	phaseStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

func (a *app) draw() {
	a.screen.Clear()

	x := a.width/2 - 4
	y := a.height/2 - 6
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	// Cars must stop during the walk phase, so the red lamp stays lit.
	redLit := a.phase == "red" || a.phase == "walk"

	a.drawText(x, y, housing, "┌──────┐")
	a.drawLamp(x, y+1, redLit, tcell.ColorRed)
	a.drawLamp(x, y+3, a.phase == "yellow", tcell.ColorYellow)
	a.drawLamp(x, y+5, a.phase == "green", tcell.ColorGreen)
	a.drawText(x, y+7, housing, "└──────┘")

	if a.phase == "walk" {
		a.drawText(x-1, y+9, tcell.StyleDefault.Foreground(tcell.ColorGreen).Reverse(true), "   WALK   ")
	} else {
		a.drawText(x-1, y+9, lampOff, "DON'T WALK")
	}

	a.drawText(x-1, y+11, phaseStyle, fmt.Sprintf("phase: %-6s", a.phase))
	a.drawText(2, a.height-2, helpStyle, "space: request crossing   q: quit")

	a.screen.Show()
}

func (a *app) drawLamp(x, y int, lit bool, color tcell.Color) {
	style := lampOff
	if lit {
		style = tcell.StyleDefault.Foreground(color)
	}
	a.drawText(x, y, housing, "│")
	a.drawText(x+1, y, style, "██████")
	a.drawText(x+7, y, housing, "│")
	a.drawText(x, y+1, housing, "│")
	a.drawText(x+1, y+1, style, "██████")
	a.drawText(x+7, y+1, housing, "│")
}

func (a *app) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		a.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (a *app) cleanup() {
	if a.audioInit {
		speaker.Close()
	}
	a.screen.Fini()
}

func configureLogger(cfg AppConfig, w *os.File) *slog.Logger {
	var logger *slog.Logger
	switch cfg.Env {
	case "dev":
		logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case "prod":
		logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		panic(fmt.Sprintf("incorrect env type: %s. possible values: dev, prod", cfg.Env))
	}
	return logger
}

func main() {
	if err := dotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	var cfg AppConfig
	envconf.MustProcess(context.Background(), &cfg)

	// The screen owns the terminal, so logs go to a file.
	logFile, err := os.Create(cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer logFile.Close()
	logger := configureLogger(cfg, logFile)

	a, err := newApp(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.cleanup()

	a.run()
}
