/*
 * Copyright 2026 Holger de Carne
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mock provides a mock implementation of the home automation
// interface for testing.
package mock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	fritzhomeauto "github.com/tdrn-org/go-fritzhomeauto"
)

// Username defines the user name used for authentication towards a mock server.
const Username string = "fritz1337"

// Password defines the password used for authentication towards a mock server.
const Password string = "1example"

// PlugAIN identifies the switchable plug device served by a mock server.
const PlugAIN string = "08761 0000434"

// SensorAIN identifies the non-plug device served by a mock server.
const SensorAIN string = "11657 0008136"

const loginPath string = "/login_sid.lua"

const commandPath string = "/webservices/homeautoswitch.lua"

const mockSessionID string = "9c977765016899f8"

const mockChallenge string = "1fa56f2f"

type mockDevice struct {
	ain         string
	productName string
	name        string
	switchable  bool
	on          bool
	power       int
	energy      int
	voltage     int
	celsius     string
	alertState  bool
	alertChange int64
}

// Server represents a mock instance.
type Server struct {
	httpListener net.Listener
	connectURL   *url.URL
	logger       *slog.Logger
	stoppedWG    sync.WaitGroup
	httpServer   *http.Server
	mutex        sync.Mutex
	sessionLive  bool
	logins       int
	devices      []*mockDevice
}

// Start starts and returns a new mock instance.
//
// Start panics in case of an error. The returned server
// is listening on localhost using a dynamic port and serves
// one complete plug device and one alert-only sensor device.
func Start() *Server {
	httpListener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		log.Fatal(err)
	}
	address := httpListener.Addr().String()
	connectURL, err := url.Parse(fmt.Sprintf("http://%s:%s@%s", Username, Password, address))
	logger := slog.Default().With(slog.String("server", address))
	if err != nil {
		log.Fatal(err)
	}
	server := &Server{
		httpListener: httpListener,
		connectURL:   connectURL,
		logger:       logger,
		devices: []*mockDevice{
			{
				ain:         PlugAIN,
				productName: "FRITZ!DECT 200",
				name:        "Office plug",
				switchable:  true,
				on:          false,
				power:       10540,
				energy:      707,
				voltage:     228956,
				celsius:     "285",
			},
			{
				ain:         SensorAIN,
				productName: "FRITZ!DECT 350",
				name:        "Window sensor",
				alertState:  true,
				alertChange: 1767225600,
			},
		},
	}
	server.setupHttpServer()
	server.stoppedWG.Go(server.listenAndServe)
	return server
}

// ConnectURL gets the connect URL for this mock instance.
func (s *Server) ConnectURL() *url.URL {
	return s.connectURL
}

// Stop stops this mock instance.
func (s *Server) Stop(ctx context.Context) {
	s.httpServer.Shutdown(ctx)
	s.stoppedWG.Wait()
}

// GrantSession makes the server report an established session on the next
// unauthenticated session info request, as a gateway does for an already
// authenticated context.
func (s *Server) GrantSession() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessionLive = true
}

// LoginAttempts gets the number of credential submissions seen so far.
func (s *Server) LoginAttempts() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.logins
}

func (s *Server) setupHttpServer() {
	router := http.NewServeMux()
	router.HandleFunc(loginPath, s.handleLogin)
	router.HandleFunc(commandPath, s.handleCommand)
	s.httpServer = &http.Server{
		Handler: router,
	}
}

func (s *Server) listenAndServe() {
	s.logger.Info("http server starting...")
	err := s.httpServer.Serve(s.httpListener)
	if !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("http server failure", slog.Any("err", err))
		return
	}
	s.logger.Info("http server stopped")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	const sessionInfo = `
	<SessionInfo>
		<SID>%s</SID>
		<Challenge>%s</Challenge>
		<BlockTime>0</BlockTime>
		<Rights/>
	</SessionInfo>`
	query := r.URL.Query()
	username := query.Get("username")
	response := query.Get("response")
	sid := "0000000000000000"
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if username == "" && response == "" {
		if s.sessionLive {
			sid = mockSessionID
		}
	} else {
		s.logins++
		expected := fritzhomeauto.ChallengeResponse(Password, mockChallenge)
		if username == Username && response == expected {
			s.sessionLive = true
			sid = mockSessionID
		}
	}
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, sessionInfo, sid, mockChallenge)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("sid") != mockSessionID {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	cmd := query.Get("switchcmd")
	ain := query.Get("ain")
	s.logger.Info("mock command", slog.String("switchcmd", cmd), slog.String("ain", ain))
	s.mutex.Lock()
	defer s.mutex.Unlock()
	switch cmd {
	case "getdevicelistinfos":
		s.writeDeviceList(w)
	case "getbasicdevicestats":
		if s.lookupDevice(ain) == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.writeDeviceStats(w)
	case "setswitchon", "setswitchoff", "setswitchtoggle":
		device := s.lookupDevice(ain)
		if device == nil || !device.switchable {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch cmd {
		case "setswitchon":
			device.on = true
		case "setswitchoff":
			device.on = false
		case "setswitchtoggle":
			device.on = !device.on
		}
		state := "0"
		if device.on {
			state = "1"
		}
		fmt.Fprintln(w, state)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (s *Server) lookupDevice(ain string) *mockDevice {
	for _, device := range s.devices {
		if device.ain == ain {
			return device
		}
	}
	return nil
}

func (s *Server) writeDeviceList(w http.ResponseWriter) {
	builder := &strings.Builder{}
	builder.WriteString(`<devicelist version="1">`)
	for _, device := range s.devices {
		fmt.Fprintf(builder, `<device identifier="%s" manufacturer="AVM" productname="%s"><present>1</present><name>%s</name>`, device.ain, device.productName, device.name)
		if device.switchable {
			state := 0
			if device.on {
				state = 1
			}
			fmt.Fprintf(builder, `<switch><state>%d</state><mode>manuell</mode><lock>0</lock></switch>`, state)
			fmt.Fprintf(builder, `<powermeter><power>%d</power><energy>%d</energy><voltage>%d</voltage></powermeter>`, device.power, device.energy, device.voltage)
			fmt.Fprintf(builder, `<temperature><celsius>%s</celsius><offset>0</offset></temperature>`, device.celsius)
		}
		alertState := 0
		if device.alertState {
			alertState = 1
		}
		fmt.Fprintf(builder, `<alert><state>%d</state><lastalertchgtimestamp>%d</lastalertchgtimestamp></alert>`, alertState, device.alertChange)
		builder.WriteString(`</device>`)
	}
	builder.WriteString(`</devicelist>`)
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprint(w, builder.String())
}

func (s *Server) writeDeviceStats(w http.ResponseWriter) {
	const deviceStats = `
	<devicestats>
		<temperature><stats count="4" grid="900">285,290,-,280</stats></temperature>
		<voltage><stats count="3" grid="10">228956,229116,228876</stats></voltage>
		<power><stats count="3" grid="10">1054,1045,-</stats></power>
		<energy><stats count="2" grid="2678400">707,676</stats></energy>
	</devicestats>`
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprint(w, deviceStats)
}
