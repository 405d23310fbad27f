//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"fmt"
)

// IOStats is a snapshot of a connection's I/O counters.
type IOStats struct {
	Sent    uint64
	Recvd   uint64
	Flushed uint64
}

// Add returns the sum stats+o.
func (stats IOStats) Add(o IOStats) IOStats {
	return IOStats{
		Sent:    stats.Sent + o.Sent,
		Recvd:   stats.Recvd + o.Recvd,
		Flushed: stats.Flushed + o.Flushed,
	}
}

// Sub returns the difference stats-o.
func (stats IOStats) Sub(o IOStats) IOStats {
	return IOStats{
		Sent:    stats.Sent - o.Sent,
		Recvd:   stats.Recvd - o.Recvd,
		Flushed: stats.Flushed - o.Flushed,
	}
}

// Sum returns sum of sent and received bytes.
func (stats IOStats) Sum() uint64 {
	return stats.Sent + stats.Recvd
}

func (stats IOStats) String() string {
	return fmt.Sprintf("sent=%s, rcvd=%s, flushed=%d",
		FileSize(stats.Sent), FileSize(stats.Recvd), stats.Flushed)
}

// FileSize implements human readable byte counts.
type FileSize uint64

func (s FileSize) String() string {
	switch {
	case s > 1000*1000*1000*1000:
		return fmt.Sprintf("%dTB", s/(1000*1000*1000*1000))
	case s > 1000*1000*1000:
		return fmt.Sprintf("%dGB", s/(1000*1000*1000))
	case s > 1000*1000:
		return fmt.Sprintf("%dMB", s/(1000*1000))
	case s > 1000:
		return fmt.Sprintf("%dkB", s/1000)
	default:
		return fmt.Sprintf("%dB", s)
	}
}
