package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"golang.org/x/sync/errgroup"

	"github.com/luca-patrignani/mental-bet/config"
	"github.com/luca-patrignani/mental-bet/discovery"
	"github.com/luca-patrignani/mental-bet/identity"
	"github.com/luca-patrignani/mental-bet/metrics"
	"github.com/luca-patrignani/mental-bet/network"
	"github.com/luca-patrignani/mental-bet/node"
)

func main() {
	if len(os.Args) > 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [config.toml]\n", os.Args[0])
		os.Exit(1)
	}
	path := ""
	if len(os.Args) == 2 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		pterm.Fatal.Printfln("cannot load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		pterm.Fatal.Println(err.Error())
	}

	if cfg.Level() == slog.LevelDebug {
		pterm.DefaultLogger.Level = pterm.LogLevelDebug
	}
	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("M", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("ental ", pterm.FgDarkGray.ToStyle()),
		putils.LettersFromStringWithStyle("B", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("et", pterm.FgDarkGray.ToStyle()),
	).Render()

	if cfg.Name == "" {
		cfg.Name, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your username").Show()
		pterm.Println()
	}
	if cfg.Topic == "" {
		cfg.Topic, _ = pterm.DefaultInteractiveTextInput.WithDefaultText("Enter the room topic to join, leave empty to create a new room").Show()
		pterm.Println()
	}
	created, err := cfg.EnsureTopic()
	if err != nil {
		pterm.Fatal.Println(err.Error())
	}
	if err := cfg.Validate(); err != nil {
		pterm.Fatal.Println(err.Error())
	}
	if created {
		pterm.Success.Printfln("Created a new room, share this topic with the other players:\n%s", cfg.Topic)
	}
	pterm.Info.Printfln("Your username: %s", cfg.Name)

	if err := run(cfg, logger); err != nil {
		logger.Error("mental bet stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	keys := identity.Generate()
	n := node.New(cfg.Name,
		node.WithSeedBalance(cfg.SeedBalance),
		node.WithMetrics(m),
		node.WithLogger(logger),
		node.WithObserver(printEvent),
	)
	peer := network.NewPeer(keys, cfg.Topic, n,
		network.WithHandshakeTimeout(cfg.HandshakeTimeout.Duration),
		network.WithSendQueue(cfg.SendQueue),
		network.WithLogger(logger),
	)
	n.SetTransport(peer)

	l, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddress, err)
	}
	address, err := advertiseAddress(l.Addr().(*net.TCPAddr), cfg.AdvertiseAddress)
	if err != nil {
		_ = l.Close()
		return err
	}
	pterm.Info.Printfln("Listening on %s, announced as %s", l.Addr(), address)

	disc := &discovery.Discover{
		Announcement: discovery.Announcement{
			Topic:   cfg.Topic,
			PeerID:  peer.ID,
			Address: address,
		},
		Port:                         uint16(cfg.DiscoveryPort),
		IntervalBetweenAnnouncements: cfg.AnnounceInterval.Duration,
		Logger:                       logger,
	}
	if err := disc.Start(); err != nil {
		logger.Warn("discovery unavailable, connect to peers manually", "err", err)
		disc = nil
	}

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return peer.Serve(l)
	})
	g.Go(func() error {
		<-ctx.Done()
		var discErr error
		if disc != nil {
			discErr = disc.Close()
		}
		return errors.Join(peer.Close(), discErr)
	})
	g.Go(func() error {
		return n.Run(ctx)
	})
	if disc != nil {
		g.Go(func() error {
			connectDiscovered(ctx, peer, disc.Entries, logger)
			return nil
		})
	}
	if cfg.MetricsAddress != "" {
		srv := metrics.NewServer(cfg.MetricsAddress, reg, func(ctx context.Context) error {
			return n.Sync(ctx)
		})
		g.Go(func() error {
			logger.Info("metrics server listening", "address", cfg.MetricsAddress)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	menuErr := runMenu(ctx, n, peer, l.Addr().(*net.TCPAddr))
	cancel()
	return errors.Join(menuErr, g.Wait())
}
