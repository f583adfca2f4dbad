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
	"testing"

	"github.com/stretchr/testify/require"
)

func completePlugRecord() DeviceRecord {
	return DeviceRecord{
		Identifier:  "08761 0000434",
		ProductName: "FRITZ!DECT 200",
		Name:        "Office plug",
		Switch:      &SwitchRecord{State: true, Mode: "manuell"},
		PowerMeter:  &PowerMeterRecord{Power: 10540, Energy: 707, Voltage: 228956},
		Temperature: &TemperatureRecord{Celsius: "285", Offset: "0"},
		Alert:       &AlertRecord{State: false, LastChange: 0},
	}
}

func TestClassifyCompletePlug(t *testing.T) {
	client := &Client{}

	device := client.classifyDevice(completePlugRecord())
	plug, ok := device.(*SwitchPlug)
	require.True(t, ok)
	require.Equal(t, "08761 0000434", plug.Identifier())
	require.Equal(t, "Office plug", plug.Name())
	require.Equal(t, "FRITZ!DECT 200", plug.ProductName())
	require.True(t, plug.IsOn())
	require.InDelta(t, 228.956, plug.Voltage(), 0.0001)
	require.InDelta(t, 10.540, plug.Power(), 0.0001)
	require.Equal(t, 707, plug.Energy())
	require.InDelta(t, 28.5, plug.Celsius(), 0.0001)
	require.False(t, plug.IsAlerting())
	require.Equal(t, int64(0), plug.LastAlertChange())
}

func TestClassifyIncompletePlug(t *testing.T) {
	client := &Client{}

	incomplete := []func(record *DeviceRecord){
		func(record *DeviceRecord) { record.Switch = nil },
		func(record *DeviceRecord) { record.PowerMeter = nil },
		func(record *DeviceRecord) { record.Temperature = nil },
		func(record *DeviceRecord) { record.Alert = nil },
	}
	for _, drop := range incomplete {
		record := completePlugRecord()
		drop(&record)
		device := client.classifyDevice(record)
		unclassified, ok := device.(*UnclassifiedDevice)
		require.True(t, ok)
		require.Equal(t, record.Identifier, unclassified.Identifier())
		require.Equal(t, record.Name, unclassified.Name())
		require.Equal(t, record.ProductName, unclassified.ProductName())
		require.Equal(t, record.Alert, unclassified.Alert())
		require.False(t, unclassified.IsOn())
	}
}

func TestClassifyForeignProduct(t *testing.T) {
	client := &Client{}

	record := completePlugRecord()
	record.ProductName = "FRITZ!DECT 301"
	device := client.classifyDevice(record)
	_, ok := device.(*UnclassifiedDevice)
	require.True(t, ok)
}

func TestClassifyAlertRoundTrip(t *testing.T) {
	client := &Client{}

	record := DeviceRecord{
		Identifier:  "11657 0008136",
		ProductName: "FRITZ!DECT 350",
		Name:        "Window sensor",
		Alert:       &AlertRecord{State: true, LastChange: 1767225600},
	}
	device := client.classifyDevice(record)
	unclassified, ok := device.(*UnclassifiedDevice)
	require.True(t, ok)
	require.True(t, unclassified.IsAlerting())
	require.Equal(t, int64(1767225600), unclassified.LastAlertChange())
	require.Equal(t, record.Alert, unclassified.Alert())
}

func TestClassifyNoAlertRecord(t *testing.T) {
	client := &Client{}

	record := DeviceRecord{
		Identifier:  "grp303030-3A28DF9A9",
		ProductName: "",
		Name:        "Switch group",
	}
	device := client.classifyDevice(record)
	unclassified, ok := device.(*UnclassifiedDevice)
	require.True(t, ok)
	require.False(t, unclassified.IsAlerting())
	require.Equal(t, int64(0), unclassified.LastAlertChange())
	require.Nil(t, unclassified.Alert())
}

func TestClassifyUnparsableCelsius(t *testing.T) {
	client := &Client{}

	record := completePlugRecord()
	record.Temperature.Celsius = ""
	device := client.classifyDevice(record)
	plug, ok := device.(*SwitchPlug)
	require.True(t, ok)
	require.Equal(t, 0.0, plug.Celsius())
}

func TestParseDeviceListOrder(t *testing.T) {
	const document = `<devicelist version="1">
		<device identifier="b" productname="p"><name>second</name></device>
		<device identifier="a" productname="p"><name>first</name></device>
	</devicelist>`
	records, err := parseDeviceList(document)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "b", records[0].Identifier)
	require.Equal(t, "a", records[1].Identifier)
}

func TestParseDeviceListMalformed(t *testing.T) {
	_, err := parseDeviceList("<devicelist><device></devicelist>")
	require.ErrorIs(t, err, ErrParse)
}
