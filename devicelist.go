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
)

// DeviceRecord represents one raw device entry of a devicelist response.
//
// The identifier (AIN) is the stable key for all device scoped commands.
// The switch, power meter, temperature and alert sub-records are optional;
// which of them are present determines the device's classification.
type DeviceRecord struct {
	Identifier  string             `xml:"identifier,attr"`
	ProductName string             `xml:"productname,attr"`
	Name        string             `xml:"name"`
	Switch      *SwitchRecord      `xml:"switch"`
	PowerMeter  *PowerMeterRecord  `xml:"powermeter"`
	Temperature *TemperatureRecord `xml:"temperature"`
	Alert       *AlertRecord       `xml:"alert"`
}

// SwitchRecord represents the switch sub-record of a device entry.
type SwitchRecord struct {
	State bool   `xml:"state"`
	Mode  string `xml:"mode"`
	Lock  int    `xml:"lock"`
}

// PowerMeterRecord represents the power meter sub-record of a device entry.
//
// Power is reported in milliwatts, voltage in millivolts and the cumulative
// energy in watt-hours.
type PowerMeterRecord struct {
	Power   int `xml:"power"`
	Energy  int `xml:"energy"`
	Voltage int `xml:"voltage"`
}

// TemperatureRecord represents the temperature sub-record of a device entry.
//
// Celsius is reported as a string holding tenths of a degree.
type TemperatureRecord struct {
	Celsius string `xml:"celsius"`
	Offset  string `xml:"offset"`
}

// AlertRecord represents the alert sub-record of a device entry.
type AlertRecord struct {
	State      bool  `xml:"state"`
	LastChange int64 `xml:"lastalertchgtimestamp"`
}

type deviceListResponse struct {
	XMLName xml.Name       `xml:"devicelist"`
	Devices []DeviceRecord `xml:"device"`
}

func parseDeviceList(document string) ([]DeviceRecord, error) {
	deviceList := &deviceListResponse{}
	err := xml.Unmarshal([]byte(document), deviceList)
	if err != nil {
		return nil, fmt.Errorf("%w while decoding device list (cause: %w)", ErrParse, err)
	}
	return deviceList.Devices, nil
}
