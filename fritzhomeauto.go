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

// Package fritzhomeauto provides the necessary functions to access the
// FRITZ! home automation HTTP interface (homeautoswitch.lua).
package fritzhomeauto

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// ErrTransport indicates a network or HTTP level failure while talking to the gateway.
var ErrTransport = errors.New("transport failure")

// ErrLogin indicates a completed login handshake which was rejected by the gateway.
var ErrLogin = errors.New("login failure")

// ErrParse indicates a malformed gateway response.
var ErrParse = errors.New("parse failure")

// defaultSessionID is the reserved session id meaning "not authenticated".
const defaultSessionID = "0000000000000000"

const loginPath = "/login_sid.lua"

const commandPath = "/webservices/homeautoswitch.lua"

// Command identifies one of the fixed home automation commands.
type Command string

const (
	// CommandGetDeviceListInfos fetches the device list.
	CommandGetDeviceListInfos Command = "getdevicelistinfos"
	// CommandGetBasicDeviceStats fetches the telemetry history of a single device.
	CommandGetBasicDeviceStats Command = "getbasicdevicestats"
	// CommandSetSwitchOff switches a device off.
	CommandSetSwitchOff Command = "setswitchoff"
	// CommandSetSwitchOn switches a device on.
	CommandSetSwitchOn Command = "setswitchon"
	// CommandSetSwitchToggle toggles a device's switch state.
	CommandSetSwitchToggle Command = "setswitchtoggle"
)

// Session represents an authenticated context towards a gateway.
//
// A Session is immutable and safe for concurrent (read-only) use. It does
// not expire on its own; once the gateway invalidates the session id, a new
// Session must be obtained via [Client.Authenticate].
type Session struct {
	host string
	sid  string
}

// Host gets the gateway host this session is valid for.
func (s *Session) Host() string {
	return s.host
}

// ID gets the session id.
func (s *Session) ID() string {
	return s.sid
}

// Client instances are used to access the home automation interface of a gateway.
type Client struct {
	baseURL    *url.URL
	user       string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption interface is used to set Client options during Client creation.
type ClientOption interface {
	// Apply sets one or more options in the given Client instance.
	Apply(client *Client)
}

// ClientOptionFunc type is used to wrap functions into a ClientOption instance.
type ClientOptionFunc func(client *Client)

// Apply sets one or more options in the given Client instance.
func (f ClientOptionFunc) Apply(client *Client) {
	f(client)
}

// WithHttpClient sets a Client instance's [http.Client] which is used
// to access the gateway. Timeouts and cancellation are configured here;
// the Client itself imposes none.
func WithHttpClient(httpClient *http.Client) ClientOptionFunc {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// WithLogger sets a Client instance's [slog.Logger] which is used
// for logging.
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(client *Client) {
		client.logger = logger
	}
}

// NewClient creates a new Client instance using the given
// connect URL as well as Client options.
//
// Beside the actual URL to access the gateway the connect URL
// must also include the login credentials.
func NewClient(connectURL *url.URL, options ...ClientOption) (*Client, error) {
	baseURL := &url.URL{
		Scheme: connectURL.Scheme,
		Host:   connectURL.Host,
	}
	user := connectURL.User.Username()
	password, _ := connectURL.User.Password()
	client := &Client{
		baseURL:  baseURL,
		user:     user,
		password: password,
	}
	for _, option := range options {
		option.Apply(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{}
	}
	if client.logger == nil {
		client.logger = slog.With(slog.String("client", baseURL.String()))
	}
	return client, nil
}

// BaseURL gets the base URL used to access the gateway.
//
// The base URL does not contain a path and no login credentials.
func (client *Client) BaseURL() *url.URL {
	return client.baseURL
}

func (client *Client) loginURL() *url.URL {
	return client.baseURL.JoinPath(loginPath)
}

// Authenticate performs the login handshake and returns the established [Session].
//
// If the gateway already reports a valid session for this context, that
// session is returned right away and no credentials are sent. Otherwise the
// challenge from the first response is answered via [ChallengeResponse] and
// the session info is fetched again. A session id still equal to the
// reserved all-zero value after that second exchange means the gateway
// rejected the credentials; this is reported as [ErrLogin].
func (client *Client) Authenticate() (*Session, error) {
	sessionInfo := &sessionInfoResponse{}
	err := client.getXML(client.loginURL(), sessionInfo)
	if err != nil {
		return nil, err
	}
	if sessionInfo.SID != defaultSessionID {
		client.logger.Info("reusing established session")
		return &Session{host: client.baseURL.Host, sid: sessionInfo.SID}, nil
	}
	response := ChallengeResponse(client.password, sessionInfo.Challenge)
	loginURL := client.loginURL()
	params := loginURL.Query()
	params.Add("username", client.user)
	params.Add("response", response)
	loginURL.RawQuery = params.Encode()
	sessionInfo = &sessionInfoResponse{}
	err = client.getXML(loginURL, sessionInfo)
	if err != nil {
		return nil, err
	}
	if sessionInfo.SID == defaultSessionID {
		return nil, fmt.Errorf("%w for user '%s' (session id still reserved value)", ErrLogin, client.user)
	}
	client.logger.Info("session established")
	return &Session{host: client.baseURL.Host, sid: sessionInfo.SID}, nil
}

// Execute dispatches the given command towards the gateway and returns the
// raw response body.
//
// The ain argument selects the target device and may be empty for commands
// addressing the gateway itself (like [CommandGetDeviceListInfos]).
// Interpreting the response body is up to the caller; a failed HTTP
// exchange or a non-success status is returned unmodified and never retried.
func (client *Client) Execute(session *Session, cmd Command, ain string) (string, error) {
	commandURL := &url.URL{
		Scheme: client.baseURL.Scheme,
		Host:   session.host,
		Path:   commandPath,
	}
	params := commandURL.Query()
	params.Add("switchcmd", string(cmd))
	params.Add("sid", session.sid)
	if ain != "" {
		params.Add("ain", ain)
	}
	commandURL.RawQuery = params.Encode()
	body, status, err := client.getText(commandURL)
	if status != "" {
		client.logger.Info("command executed", slog.String("command", string(cmd)), slog.String("status", status))
	}
	return body, err
}

// getText performs one blocking parameterized GET and returns the response
// body. All outbound gateway calls funnel through here; the second return
// value carries the HTTP status line whenever a response was received.
func (client *Client) getText(requestURL *url.URL) (string, string, error) {
	response, err := client.httpClient.Get(requestURL.String())
	if err != nil {
		return "", "", fmt.Errorf("%w while accessing URL '%s' (cause: %w)", ErrTransport, requestURL.String(), err)
	}
	responseBody := response.Body
	defer responseBody.Close()
	if response.StatusCode != http.StatusOK {
		return "", response.Status, fmt.Errorf("%w while getting URL '%s' (status: %s)", ErrTransport, requestURL.String(), response.Status)
	}
	responseBytes, err := io.ReadAll(responseBody)
	if err != nil {
		return "", response.Status, fmt.Errorf("%w while reading URL '%s' (cause: %w)", ErrTransport, requestURL.String(), err)
	}
	return string(responseBytes), response.Status, nil
}

func (client *Client) getXML(requestURL *url.URL, doc any) error {
	body, _, err := client.getText(requestURL)
	if err != nil {
		return err
	}
	err = xml.Unmarshal([]byte(body), doc)
	if err != nil {
		return fmt.Errorf("%w while decoding URL '%s' (cause: %w)", ErrParse, requestURL.String(), err)
	}
	return nil
}

type sessionInfoResponse struct {
	SID       string `xml:"SID"`
	Challenge string `xml:"Challenge"`
	BlockTime int    `xml:"BlockTime"`
}
