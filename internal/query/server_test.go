package query

import (
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go1090/internal/adsb"
	"go1090/internal/flightdb"
	"go1090/internal/registry"
)

func startTestServer(t *testing.T) (addr string, srv *Server) {
	t.Helper()
	reg := registry.New(60*time.Second, 52.0, 4.0, nil)
	stats := adsb.NewStats()
	db := flightdb.Load(filepath.Join(t.TempDir(), "db.json"), nil)

	srv = NewServer(reg, stats, db, false, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv.listener = ln

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.handle(conn)
		}
	}()

	return ln.Addr().String(), srv
}

func sendCommand(t *testing.T, addr, cmd string) ([]byte, error) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(cmd))
	require.NoError(t, err)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	buf := make([]byte, 65536)
	n, err := conn.Read(buf)
	return buf[:n], err
}

func TestGetDataReturnsJSONArray(t *testing.T) {
	addr, _ := startTestServer(t)
	resp, err := sendCommand(t, addr, cmdGetData)
	require.NoError(t, err)

	var views []AircraftView
	require.NoError(t, json.Unmarshal(resp, &views))
	assert.Empty(t, views)
}

func TestGetStatisticsReturnsJSONObject(t *testing.T) {
	addr, _ := startTestServer(t)
	resp, err := sendCommand(t, addr, cmdGetStatistics)
	require.NoError(t, err)

	var snap adsb.StatsSnapshot
	require.NoError(t, json.Unmarshal(resp, &snap))
}

func TestGetFlightDBReturnsJSONObject(t *testing.T) {
	addr, _ := startTestServer(t)
	resp, err := sendCommand(t, addr, cmdGetFlightDB)
	require.NoError(t, err)

	var doc flightdb.Document
	require.NoError(t, json.Unmarshal(resp, &doc))
}

func TestUnknownCommandClosesWithNoResponse(t *testing.T) {
	addr, _ := startTestServer(t)
	resp, err := sendCommand(t, addr, "GET NONSENSE STR")
	assert.Empty(t, resp)
	assert.Error(t, err) // connection closed with no data, read returns EOF
}
