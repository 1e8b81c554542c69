package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/tarm/serial"
	"go.uber.org/zap"

	"github.com/mastercactapus/grbltok/machine/grbl"
	"github.com/mastercactapus/grbltok/spjs"
)

// realtimeWriter writes through a Sender without buffer accounting.
type realtimeWriter struct{ s *grbl.Sender }

func (w realtimeWriter) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := w.s.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

func newServeCmd() *cobra.Command {
	var (
		port     string
		baud     int
		spjsURL  string
		addr     string
		rxSize   int
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve controller state over HTTP",
		Long: `Serve reads a Grbl controller from a serial port or an SPJS server and
exposes its state over HTTP. Without either, controller output is accepted
on POST /api/responses.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			var conn io.ReadWriter
			switch {
			case spjsURL != "":
				conn = spjs.Dial(ctx, spjsURL, port, spjs.WithLogger(log.Named("spjs")), spjs.WithBaud(baud))
			case port != "":
				p, err := serial.OpenPort(&serial.Config{Name: port, Baud: baud})
				if err != nil {
					return err
				}
				defer p.Close()
				conn = p
			}

			var (
				mon    *grbl.Monitor
				sender *grbl.Sender
				feed   *io.PipeWriter
			)
			monLog := grbl.WithMonitorLogger(log.Named("grbl"))
			if conn == nil {
				var pr *io.PipeReader
				pr, feed = io.Pipe()
				defer feed.Close()
				mon = grbl.NewMonitor(pr, monLog)
			} else {
				sender = grbl.NewSender(conn, rxSize)
				mon = grbl.NewMonitor(conn, monLog, grbl.WithAcker(sender))
				go func() {
					if err := grbl.Poll(ctx, realtimeWriter{sender}, interval); err != nil && ctx.Err() == nil {
						log.Error("poll", zap.Error(err))
					}
				}()
			}

			monErr := make(chan error, 1)
			go func() { monErr <- mon.Run(ctx) }()

			var a *api
			if sender != nil {
				a = newAPI(ctx, mon, sender, nil)
			} else {
				a = newAPI(ctx, mon, nil, feed)
			}
			srv := &http.Server{Addr: addr, Handler: a}
			srvErr := make(chan error, 1)
			go func() { srvErr <- srv.ListenAndServe() }()
			log.Info("listening", zap.String("addr", addr))

			var err error
			select {
			case <-ctx.Done():
			case err = <-srvErr:
			case err = <-monErr:
				if err == nil {
					err = errors.New("controller connection closed")
				}
			}

			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if sErr := srv.Shutdown(shutdownCtx); sErr != nil {
				log.Warn("shutdown", zap.Error(sErr))
			}
			if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
				err = nil
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&port, "port", envOr("GCNC_PORT", ""), "Serial port path (or name if using SPJS).")
	f.IntVar(&baud, "baud", envIntOr("GCNC_BAUD", 115200), "Serial baud rate.")
	f.StringVar(&spjsURL, "spjs", envOr("GCNC_SPJS", ""), "Websocket URL of the SPJS server to use.")
	f.StringVar(&addr, "addr", envOr("GCNC_ADDR", ":9091"), "Address to bind the HTTP server to.")
	f.IntVar(&rxSize, "rx-buffer", grbl.DefaultRXBufferSize, "Controller receive buffer size in bytes.")
	f.DurationVar(&interval, "poll", 250*time.Millisecond, "Status report polling interval.")
	return cmd
}
