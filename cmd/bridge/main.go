// cmd/bridge/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-bridge/internal/bridge"
	busmodbus "github.com/tamzrod/modbus-bridge/internal/bus/modbus"
	"github.com/tamzrod/modbus-bridge/internal/config"
	"github.com/tamzrod/modbus-bridge/internal/numfmt"
)

// settleDelay keeps the first endpoint from mistaking the connection
// setup for the start of a request.
const settleDelay = 20 * time.Millisecond

// drainSlack pads the shutdown drain bound beyond one transport
// timeout plus one recovery stall.
const drainSlack = 100 * time.Millisecond

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: bridge <config.yaml>")
		return 1
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridge: %v\n", err)
		return 1
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "bridge: %v\n", err)
		return 1
	}
	config.Normalize(cfg)

	level := zerolog.InfoLevel
	if cfg.Bridge.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	timeout := time.Duration(cfg.Bridge.TimeoutMs) * time.Millisecond

	// --------------------
	// Connect both buses (fail fast, no workers start on failure)
	// --------------------

	local, err := busmodbus.New(busmodbus.Config{
		Endpoint: cfg.Bridge.Local.Endpoint,
		UnitID:   cfg.Bridge.Local.UnitID,
		Timeout:  timeout,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "bridge: connection failed to local at '%s': '%v'\n",
			cfg.Bridge.Local.Endpoint, err)
		return 1
	}

	time.Sleep(settleDelay)

	remote, err := busmodbus.New(busmodbus.Config{
		Endpoint: cfg.Bridge.Remote.Endpoint,
		UnitID:   cfg.Bridge.Remote.UnitID,
		Timeout:  timeout,
		Logger:   logger,
	})
	if err != nil {
		_ = local.Close()
		fmt.Fprintf(os.Stderr, "bridge: connection failed to remote at '%s': '%v'\n",
			cfg.Bridge.Remote.Endpoint, err)
		return 1
	}

	// --------------------
	// Wire the exchange
	// --------------------

	order := numfmt.LittleEndian
	if cfg.Bridge.BigEndian {
		order = numfmt.BigEndian
	}

	rec := bridge.NewRecorder(os.Stdout, os.Stderr, cfg.Bridge.Verbose, order)

	sup, err := bridge.NewSupervisor(bridge.SupervisorConfig{
		Local:  local,
		Remote: remote,
		Forward: bridge.Direction{
			SourceAddress: cfg.Bridge.Forward.SourceAddress,
			DestAddress:   cfg.Bridge.Forward.DestAddress,
			Quantity:      cfg.Bridge.Forward.Quantity,
		},
		Return: bridge.Direction{
			SourceAddress: cfg.Bridge.Return.SourceAddress,
			DestAddress:   cfg.Bridge.Return.DestAddress,
			Quantity:      cfg.Bridge.Return.Quantity,
		},
		Logger: logger,
	}, rec)
	if err != nil {
		_ = local.Close()
		_ = remote.Close()
		fmt.Fprintf(os.Stderr, "bridge: %v\n", err)
		return 1
	}

	coord := bridge.NewCoordinator(bridge.CoordinatorConfig{
		Run:          sup.RunState(),
		Stats:        rec,
		Closers:      []io.Closer{local, remote},
		Label:        cfg.Bridge.Local.Endpoint,
		DrainTimeout: timeout + 2*time.Millisecond + drainSlack,
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		Logger:       logger,
	})

	// Two-phase shutdown: the signal goroutine only flips the stop
	// flag; drain and report run below in the main control context.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range sigCh {
			coord.RequestStop(bridge.StopInterrupt)
		}
	}()

	printBanner(cfg, order)

	sup.Start()
	sup.Wait()

	return coord.Finalize()
}

func printBanner(cfg *config.Config, order numfmt.WordOrder) {
	b := cfg.Bridge

	fmt.Printf("Protocol configuration: Modbus TCP\n")
	fmt.Printf("Forward path..........: %s @%d -> %s @%d, count = %d\n",
		b.Local.Endpoint, b.Forward.SourceAddress,
		b.Remote.Endpoint, b.Forward.DestAddress, b.Forward.Quantity)
	fmt.Printf("Return path...........: %s @%d -> %s @%d, count = %d\n",
		b.Remote.Endpoint, b.Return.SourceAddress,
		b.Local.Endpoint, b.Return.DestAddress, b.Return.Quantity)
	fmt.Printf("Communication.........: t/o %.2f s\n",
		float64(b.TimeoutMs)/1000)
	fmt.Printf("Data type.............: 32-bit integer %s, output (holding) register table\n",
		order)
	fmt.Printf("\n(Ctrl-C to stop)\n")
}
