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

func TestParseDeviceStats(t *testing.T) {
	const document = `<devicestats>
		<temperature><stats count="3" grid="900">285,-,280</stats></temperature>
		<voltage><stats count="2" grid="10">228956,229116</stats></voltage>
		<power><stats count="2" grid="10">1054,1045</stats></power>
		<energy>
			<stats count="2" grid="2678400">707,676</stats>
			<stats count="2" grid="86400">12,9</stats>
		</energy>
	</devicestats>`
	stats, err := parseDeviceStats(document)
	require.NoError(t, err)
	require.Len(t, stats, 5)

	require.Equal(t, StatTemperature, stats[0].Kind)
	require.Equal(t, 3, stats[0].Count)
	require.Equal(t, 900, stats[0].Grid)
	require.Equal(t, []float64{28.5, 28.0}, stats[0].Values)

	require.Equal(t, StatVoltage, stats[1].Kind)
	require.InDelta(t, 228.956, stats[1].Values[0], 0.0001)
	require.InDelta(t, 229.116, stats[1].Values[1], 0.0001)

	require.Equal(t, StatPower, stats[2].Kind)
	require.InDelta(t, 10.54, stats[2].Values[0], 0.0001)
	require.InDelta(t, 10.45, stats[2].Values[1], 0.0001)

	require.Equal(t, StatEnergy, stats[3].Kind)
	require.Equal(t, []float64{707, 676}, stats[3].Values)
	require.Equal(t, StatEnergy, stats[4].Kind)
	require.Equal(t, 86400, stats[4].Grid)
	require.Equal(t, []float64{12, 9}, stats[4].Values)
}

func TestParseDeviceStatsEmptySections(t *testing.T) {
	stats, err := parseDeviceStats(`<devicestats></devicestats>`)
	require.NoError(t, err)
	require.Empty(t, stats)
}

func TestParseDeviceStatsMalformed(t *testing.T) {
	_, err := parseDeviceStats(`<devicestats><power><stats count="1" grid="10">not a number</stats></power></devicestats>`)
	require.ErrorIs(t, err, ErrParse)

	_, err = parseDeviceStats(`no xml`)
	require.ErrorIs(t, err, ErrParse)
}
