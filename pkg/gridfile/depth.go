// Copyright 2025 gridlab LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gridfile

// 🕳️ DepthDomain classifies what a grid's Z values represent
type DepthDomain int

const (
	DepthDomainUnknown DepthDomain = iota
	DepthDomainTime                // Two-way time, values within ±20
	DepthDomainTVD                 // True vertical depth, all positive beyond 20
	DepthDomainSSTVD               // Subsea TVD, all negative beyond -20
)

// String returns a string representation of DepthDomain
func (d DepthDomain) String() string {
	switch d {
	case DepthDomainTime:
		return "Time"
	case DepthDomainTVD:
		return "TVD"
	case DepthDomainSSTVD:
		return "SSTVD"
	default:
		return "unknown"
	}
}

// NullZSentinel marks missing Z values in vendor exports
const NullZSentinel = 1e+030

// 🔍 ClassifyDepthDomain infers the depth domain from a grid's Z values.
// Null sentinels are ignored. An empty or ambiguous sample is Unknown.
func ClassifyDepthDomain(z []float64) DepthDomain {
	first := true
	var minZ, maxZ float64
	for _, v := range z {
		if v >= NullZSentinel {
			continue
		}
		if first {
			minZ, maxZ = v, v
			first = false
			continue
		}
		if v < minZ {
			minZ = v
		}
		if v > maxZ {
			maxZ = v
		}
	}
	if first {
		return DepthDomainUnknown
	}

	switch {
	case minZ >= -20 && maxZ <= 20:
		return DepthDomainTime
	case maxZ < 0 && minZ < -20:
		return DepthDomainSSTVD
	case minZ > 20 && maxZ > 20:
		return DepthDomainTVD
	default:
		return DepthDomainUnknown
	}
}
