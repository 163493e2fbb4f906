// Package query implements the Query Interface (T4 Server role): a TCP
// server answering the three fixed-text commands of spec.md section 6,
// grounded on original_source/radar/server.py's SpotsServer /
// TCPRequestHandler (a Python SocketServer.ThreadingMixIn server), adapted
// to Go's one-goroutine-per-connection idiom.
package query

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"go1090/internal/adsb"
	"go1090/internal/flightdb"
	"go1090/internal/registry"
)

const (
	cmdGetData       = "GET DATA STR"
	cmdGetStatistics = "GET STATISTICS STR"
	cmdGetFlightDB   = "GET FLIGHT_DB STR"
)

// Server answers "GET DATA STR" / "GET STATISTICS STR" / "GET FLIGHT_DB STR"
// requests over TCP. Unknown commands close the connection with no response.
type Server struct {
	reg       *registry.Registry
	stats     *adsb.Stats
	db        *flightdb.DB
	useMetric bool
	logger    *logrus.Logger

	listener net.Listener
}

// NewServer constructs a query server. It does not start listening until
// Serve is called.
func NewServer(reg *registry.Registry, stats *adsb.Stats, db *flightdb.DB, useMetric bool, logger *logrus.Logger) *Server {
	return &Server{reg: reg, stats: stats, db: db, useMetric: useMetric, logger: logger}
}

// Serve binds addr (SO_REUSEADDR per spec.md section 6) and accepts
// connections until ctx-like shutdown is requested via Close.
func (s *Server) Serve(addr string) error {
	lc := net.ListenConfig{
		Control: setReuseAddr,
	}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln

	if s.logger != nil {
		s.logger.WithField("addr", addr).Info("query server listening")
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go s.handle(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, 1024)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		return
	}
	cmd := string(buf[:n])

	var payload interface{}
	switch cmd {
	case cmdGetData:
		payload = Snapshot(s.reg.Snapshot(), time.Now(), s.useMetric)
	case cmdGetStatistics:
		payload = s.stats.Snapshot()
	case cmdGetFlightDB:
		payload = s.db.Snapshot()
	default:
		if s.logger != nil {
			s.logger.WithField("cmd", cmd).Debug("malformed query command, dropping connection")
		}
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("query response encode failed")
		}
		return
	}
	conn.Write(data)
}
