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
	"fmt"
	"strconv"
	"strings"
)

// plugProductPrefix selects the product family classified as switchable plug.
const plugProductPrefix = "FRITZ!DECT 2"

// Device provides uniform access to a gateway device regardless of its
// classification.
//
// Devices not supporting an operation answer conservatively (switched off,
// not alerting). Switch commands never update the in-memory device; the
// device state is stale right after any of them and only a fresh
// [Client.ListDevices] call observes the change.
type Device interface {
	// Identifier gets the device's AIN.
	Identifier() string
	// Name gets the device's user assigned name.
	Name() string
	// ProductName gets the device's product name.
	ProductName() string
	// IsOn reports whether the device's switch was on at listing time.
	IsOn() bool
	// IsAlerting reports whether the device's alert state was set at listing time.
	IsAlerting() bool
	// LastAlertChange gets the unix epoch seconds of the last alert state change.
	LastAlertChange() int64
	// FetchStats fetches the device's telemetry history.
	FetchStats(session *Session) ([]DeviceStat, error)
	// TurnOn switches the device on.
	TurnOn(session *Session) error
	// TurnOff switches the device off.
	TurnOff(session *Session) error
	// Toggle toggles the device's switch state.
	Toggle(session *Session) error
}

// ListDevices fetches the device list from the gateway and classifies every
// entry, preserving the gateway's order.
//
// Every listed record yields exactly one [Device]: a [*SwitchPlug] when the
// product name carries the plug family prefix and the switch, power meter,
// temperature and alert sub-records are all present, a [*UnclassifiedDevice]
// otherwise. The result is never cached; each call reflects the gateway
// state at call time.
func (client *Client) ListDevices(session *Session) ([]Device, error) {
	document, err := client.Execute(session, CommandGetDeviceListInfos, "")
	if err != nil {
		return nil, err
	}
	records, err := parseDeviceList(document)
	if err != nil {
		return nil, err
	}
	devices := make([]Device, 0, len(records))
	for _, record := range records {
		devices = append(devices, client.classifyDevice(record))
	}
	return devices, nil
}

// FetchDeviceStats fetches and parses the telemetry history of the device
// identified by the given AIN.
func (client *Client) FetchDeviceStats(session *Session, ain string) ([]DeviceStat, error) {
	document, err := client.Execute(session, CommandGetBasicDeviceStats, ain)
	if err != nil {
		return nil, err
	}
	return parseDeviceStats(document)
}

// A record missing any of the four plug sub-records classifies as
// unclassified, even when the product name matches. This intentionally
// demotes plugs the gateway reported incompletely.
func (client *Client) classifyDevice(record DeviceRecord) Device {
	common := deviceCommon{
		client:      client,
		identifier:  record.Identifier,
		name:        record.Name,
		productName: record.ProductName,
	}
	if strings.HasPrefix(record.ProductName, plugProductPrefix) &&
		record.Switch != nil && record.PowerMeter != nil &&
		record.Temperature != nil && record.Alert != nil {
		celsius, err := strconv.ParseFloat(record.Temperature.Celsius, 64)
		if err != nil {
			celsius = 0
		}
		return &SwitchPlug{
			deviceCommon: common,
			on:           record.Switch.State,
			voltage:      float64(record.PowerMeter.Voltage) * 0.001,
			power:        float64(record.PowerMeter.Power) * 0.001,
			energy:       record.PowerMeter.Energy,
			celsius:      celsius * 0.1,
		}
	}
	return &UnclassifiedDevice{
		deviceCommon: common,
		alert:        record.Alert,
	}
}

type deviceCommon struct {
	client      *Client
	identifier  string
	name        string
	productName string
}

func (d *deviceCommon) Identifier() string {
	return d.identifier
}

func (d *deviceCommon) Name() string {
	return d.name
}

func (d *deviceCommon) ProductName() string {
	return d.productName
}

func (d *deviceCommon) FetchStats(session *Session) ([]DeviceStat, error) {
	return d.client.FetchDeviceStats(session, d.identifier)
}

func (d *deviceCommon) TurnOn(session *Session) error {
	_, err := d.client.Execute(session, CommandSetSwitchOn, d.identifier)
	return err
}

func (d *deviceCommon) TurnOff(session *Session) error {
	_, err := d.client.Execute(session, CommandSetSwitchOff, d.identifier)
	return err
}

func (d *deviceCommon) Toggle(session *Session) error {
	_, err := d.client.Execute(session, CommandSetSwitchToggle, d.identifier)
	return err
}

// SwitchPlug represents a switchable plug with power, voltage, energy and
// temperature telemetry.
type SwitchPlug struct {
	deviceCommon
	on      bool
	voltage float64
	power   float64
	energy  int
	celsius float64
}

// IsOn reports whether the plug was switched on at listing time.
func (d *SwitchPlug) IsOn() bool {
	return d.on
}

// IsAlerting always reports false; plugs carry no retained alert state.
func (d *SwitchPlug) IsAlerting() bool {
	return false
}

// LastAlertChange always reports 0; plugs carry no retained alert state.
func (d *SwitchPlug) LastAlertChange() int64 {
	return 0
}

// Voltage gets the measured voltage in volts.
func (d *SwitchPlug) Voltage() float64 {
	return d.voltage
}

// Power gets the measured power in watts.
func (d *SwitchPlug) Power() float64 {
	return d.power
}

// Energy gets the cumulative energy in watt-hours.
func (d *SwitchPlug) Energy() int {
	return d.energy
}

// Celsius gets the measured temperature in degree celsius.
func (d *SwitchPlug) Celsius() float64 {
	return d.celsius
}

func (d *SwitchPlug) String() string {
	state := "off"
	if d.on {
		state = "on"
	}
	return fmt.Sprintf("%s %q (%s) %s %.1fW %.1fV %dWh %.1f°C", d.identifier, d.name, d.productName, state, d.power, d.voltage, d.energy, d.celsius)
}

// UnclassifiedDevice represents a device outside the recognized plug family
// or a plug listed with incomplete sub-records.
type UnclassifiedDevice struct {
	deviceCommon
	alert *AlertRecord
}

// IsOn always reports false; the switch state of an unclassified device is unknown.
func (d *UnclassifiedDevice) IsOn() bool {
	return false
}

// IsAlerting reports the alert state of the underlying record, false when
// the record carries no alert sub-record.
func (d *UnclassifiedDevice) IsAlerting() bool {
	return d.alert != nil && d.alert.State
}

// LastAlertChange gets the unix epoch seconds of the last alert state
// change, 0 when the record carries no alert sub-record.
func (d *UnclassifiedDevice) LastAlertChange() int64 {
	if d.alert == nil {
		return 0
	}
	return d.alert.LastChange
}

// Alert gets the original alert sub-record, nil when absent.
func (d *UnclassifiedDevice) Alert() *AlertRecord {
	return d.alert
}

func (d *UnclassifiedDevice) String() string {
	return fmt.Sprintf("%s %q (%s) unclassified", d.identifier, d.name, d.productName)
}
