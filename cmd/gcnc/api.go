package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdlog "log"
	"net/http"
	"strconv"

	sse "github.com/alexandrevicenzi/go-sse"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mastercactapus/grbltok/gcode"
	"github.com/mastercactapus/grbltok/machine"
	"github.com/mastercactapus/grbltok/machine/grbl"
	"github.com/mastercactapus/grbltok/meshlevel"
)

// streamer sends a program to a connected controller.
type streamer interface {
	Send(ctx context.Context, r gcode.Reader) error
}

type api struct {
	http.Handler
	mon  *grbl.Monitor
	send streamer
	feed io.Writer
	sse  *sse.Server
}

// newAPI serves mon over HTTP until ctx is done. Programs are streamed
// through send; without one they are only parsed. Controller output posted
// to /api/responses is written to feed, when set.
func newAPI(ctx context.Context, mon *grbl.Monitor, send streamer, feed io.Writer) *api {
	r := mux.NewRouter()

	a := &api{
		Handler: r,
		mon:     mon,
		send:    send,
		feed:    feed,
		sse: sse.NewServer(&sse.Options{
			Logger: stdlog.New(io.Discard, "", 0),
		}),
	}

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "*")
			log.Debug("request", zap.String("method", req.Method), zap.String("path", req.URL.Path), zap.String("remote", req.RemoteAddr))
			next.ServeHTTP(w, req)
		})
	})

	r.HandleFunc("/api/gcode", a.gcode).Methods("POST")
	r.HandleFunc("/api/responses", a.responses).Methods("POST")
	r.HandleFunc("/api/state", a.state).Methods("GET")
	r.HandleFunc("/api/settings", a.settings).Methods("GET")
	r.HandleFunc("/api/probes", a.probes).Methods("GET")
	r.HandleFunc("/api/probes", a.resetProbes).Methods("DELETE")
	r.HandleFunc("/api/mesh/offset", a.meshOffset).Methods("GET")

	r.PathPrefix("/events/").Handler(a.sse)
	go a.publish(ctx)

	return a
}

// publish forwards state changes to /events/state subscribers.
func (a *api) publish(ctx context.Context) {
	for {
		var state machine.State
		select {
		case <-ctx.Done():
			return
		case state = <-a.mon.State():
		}
		data, err := json.Marshal(state)
		if err != nil {
			log.Error("marshal state", zap.Error(err))
			continue
		}
		a.sse.SendMessage("/events/state", sse.SimpleMessage(string(data)))
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("encode", zap.Error(err))
	}
}

func (a *api) gcode(w http.ResponseWriter, req *http.Request) {
	p := gcode.NewParser(req.Body)
	var lines []gcode.Line
	for {
		l, err := p.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		lines = append(lines, l)
	}

	if a.send == nil {
		text := make([]string, len(lines))
		for i, l := range lines {
			text[i] = l.String()
		}
		writeJSON(w, text)
		return
	}

	err := a.send.Send(req.Context(), &gcode.LinesReader{Lines: lines})
	if errors.Is(err, grbl.ErrCommand) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		log.Error("send", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (a *api) responses(w http.ResponseWriter, req *http.Request) {
	if a.feed == nil {
		http.Error(w, "controller output is read from the device", http.StatusConflict)
		return
	}
	if _, err := io.Copy(a.feed, req.Body); err != nil {
		log.Error("feed responses", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (a *api) state(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, a.mon.CurrentState())
}

func (a *api) settings(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(a.mon.Settings()); err != nil {
		log.Error("encode settings", zap.Error(err))
	}
	enc.Close()
}

func (a *api) probes(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, a.mon.Probes())
}

func (a *api) resetProbes(w http.ResponseWriter, req *http.Request) {
	a.mon.ResetProbes()
	w.WriteHeader(http.StatusNoContent)
}

type meshOffset struct {
	OK bool    `json:"ok"`
	Z  float64 `json:"z"`
}

// meshOffset interpolates the probed surface at x,y. With relative=1 heights
// are reported against the first probe.
func (a *api) meshOffset(w http.ResponseWriter, req *http.Request) {
	var err error
	parse := func(param string) (val float64) {
		if err != nil {
			return 0
		}
		val, err = strconv.ParseFloat(req.FormValue(param), 64)
		return val
	}
	x := parse("x")
	y := parse("y")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	points := meshlevel.Points(a.mon.Probes())
	if req.FormValue("relative") == "1" && len(points) > 0 {
		points = meshlevel.OffsetFrom(points[0].Z, points)
	}
	m, err := meshlevel.NewMesh(points)
	if errors.Is(err, meshlevel.ErrTooFewPoints) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		log.Error("build mesh", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var res meshOffset
	res.OK, res.Z = m.OffsetZ(x, y)
	writeJSON(w, res)
}
