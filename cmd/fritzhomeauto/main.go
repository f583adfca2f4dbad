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

// Command fritzhomeauto lists and switches the smart plug devices of a
// FRITZ! gateway.
//
// Usage:
//
//	fritzhomeauto [-config <file>] [-host <host>] [-user <user>] [-password <password>] list [-ain <ain>] [-stats]
//	fritzhomeauto [-config <file>] [-host <host>] [-user <user>] [-password <password>] switch -ain <ain> (-on|-off|-toggle)
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	fritzhomeauto "github.com/tdrn-org/go-fritzhomeauto"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	host := flag.String("host", "", "gateway host (overrides config)")
	user := flag.String("user", "", "gateway user (overrides config)")
	password := flag.String("password", "", "gateway password (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *user != "" {
		cfg.User = *user
	}
	if *password != "" {
		cfg.Password = *password
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	switch args[0] {
	case "list":
		err = runList(cfg, args[1:])
	case "switch":
		err = runSwitch(cfg, args[1:])
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

func runList(cfg *Config, args []string) error {
	flags := flag.NewFlagSet("list", flag.ExitOnError)
	ain := flags.String("ain", "", "only show the device with this identifier")
	stats := flags.Bool("stats", false, "also fetch and show device stats")
	flags.Parse(args)

	client, session, err := connect(cfg)
	if err != nil {
		return err
	}
	devices, err := client.ListDevices(session)
	if err != nil {
		return err
	}
	if *ain != "" {
		device, err := findDevice(devices, *ain)
		if err != nil {
			return err
		}
		devices = []fritzhomeauto.Device{device}
	} else {
		fmt.Printf("found %d devices\n", len(devices))
	}
	for _, device := range devices {
		fmt.Println(device)
		if *stats {
			deviceStats, err := device.FetchStats(session)
			if err != nil {
				return err
			}
			for _, stat := range deviceStats {
				fmt.Printf("  %s: %d samples every %ds: %v\n", stat.Kind, stat.Count, stat.Grid, stat.Values)
			}
		}
	}
	return nil
}

func runSwitch(cfg *Config, args []string) error {
	flags := flag.NewFlagSet("switch", flag.ExitOnError)
	ain := flags.String("ain", "", "the device identifier of the device to switch")
	on := flags.Bool("on", false, "switch the device on")
	off := flags.Bool("off", false, "switch the device off")
	toggle := flags.Bool("toggle", false, "toggle the device")
	flags.Parse(args)
	if *ain == "" {
		return fmt.Errorf("missing -ain option")
	}

	client, session, err := connect(cfg)
	if err != nil {
		return err
	}
	devices, err := client.ListDevices(session)
	if err != nil {
		return err
	}
	device, err := findDevice(devices, *ain)
	if err != nil {
		return err
	}
	switch {
	case *toggle:
		return device.Toggle(session)
	case *on:
		return device.TurnOn(session)
	case *off:
		return device.TurnOff(session)
	}
	return fmt.Errorf("missing one of -on, -off, -toggle")
}

func connect(cfg *Config) (*fritzhomeauto.Client, *fritzhomeauto.Session, error) {
	connectURL := &url.URL{
		Scheme: "http",
		Host:   cfg.Host,
		User:   url.UserPassword(cfg.User, cfg.Password),
	}
	client, err := fritzhomeauto.NewClient(connectURL)
	if err != nil {
		return nil, nil, err
	}
	session, err := client.Authenticate()
	if err != nil {
		return nil, nil, err
	}
	return client, session, nil
}

func findDevice(devices []fritzhomeauto.Device, ain string) (fritzhomeauto.Device, error) {
	for _, device := range devices {
		if device.Identifier() == ain {
			return device, nil
		}
	}
	return nil, fmt.Errorf("cannot find device with ain %q", ain)
}

func setupLogger(cfg LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
