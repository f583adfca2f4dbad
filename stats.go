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

package fritzhomeauto

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// StatKind identifies the telemetry quantity of a [DeviceStat] series.
type StatKind string

const (
	// StatTemperature marks a temperature series (degree celsius).
	StatTemperature StatKind = "temperature"
	// StatVoltage marks a voltage series (volt).
	StatVoltage StatKind = "voltage"
	// StatPower marks a power series (watt).
	StatPower StatKind = "power"
	// StatEnergy marks an energy series (watt-hours).
	StatEnergy StatKind = "energy"
)

// DeviceStat represents one telemetry series of a getbasicdevicestats response.
//
// Grid is the number of seconds between two samples. Values are ordered
// newest first, already scaled to the kind's unit; sample slots the gateway
// reported as unavailable ("-") are skipped.
type DeviceStat struct {
	Kind   StatKind
	Count  int
	Grid   int
	Values []float64
}

type deviceStatsResponse struct {
	XMLName     xml.Name     `xml:"devicestats"`
	Temperature statsSection `xml:"temperature"`
	Voltage     statsSection `xml:"voltage"`
	Power       statsSection `xml:"power"`
	Energy      statsSection `xml:"energy"`
}

type statsSection struct {
	Stats []statsEntry `xml:"stats"`
}

type statsEntry struct {
	Count  int    `xml:"count,attr"`
	Grid   int    `xml:"grid,attr"`
	Values string `xml:",chardata"`
}

// The gateway reports raw integers; the factor maps them onto the unit
// documented for the corresponding StatKind.
func statScale(kind StatKind) float64 {
	switch kind {
	case StatTemperature:
		return 0.1
	case StatVoltage:
		return 0.001
	case StatPower:
		return 0.01
	default:
		return 1.0
	}
}

func parseDeviceStats(document string) ([]DeviceStat, error) {
	deviceStats := &deviceStatsResponse{}
	err := xml.Unmarshal([]byte(document), deviceStats)
	if err != nil {
		return nil, fmt.Errorf("%w while decoding device stats (cause: %w)", ErrParse, err)
	}
	stats := make([]DeviceStat, 0)
	sections := []struct {
		kind    StatKind
		section statsSection
	}{
		{StatTemperature, deviceStats.Temperature},
		{StatVoltage, deviceStats.Voltage},
		{StatPower, deviceStats.Power},
		{StatEnergy, deviceStats.Energy},
	}
	for _, entry := range sections {
		for _, series := range entry.section.Stats {
			values, err := parseStatValues(series.Values, statScale(entry.kind))
			if err != nil {
				return nil, fmt.Errorf("%w while decoding %s stats (cause: %w)", ErrParse, entry.kind, err)
			}
			stats = append(stats, DeviceStat{
				Kind:   entry.kind,
				Count:  series.Count,
				Grid:   series.Grid,
				Values: values,
			})
		}
	}
	return stats, nil
}

func parseStatValues(raw string, scale float64) ([]float64, error) {
	values := make([]float64, 0)
	for field := range strings.SplitSeq(strings.TrimSpace(raw), ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == "-" {
			continue
		}
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		values = append(values, value*scale)
	}
	return values, nil
}
