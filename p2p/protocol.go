//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Package p2p implements the byte channel between the garbler and the
// evaluator. The channel carries the session header, garbled gate
// material, input labels, and revealed colour bits, all in the order
// both parties produce and consume them.
package p2p

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/markkurossi/picogram/wire"
)

const (
	numBuffers   = 3
	writeBufSize = 64 * 1024
	readBufSize  = 1024 * 1024
)

// Conn implements a buffered protocol connection. Writes are batched
// into buffers that a writer goroutine hands to the underlying
// connection, so the garbler keeps garbling while the previous batch
// is in flight.
type Conn struct {
	conn io.ReadWriter

	wbuf []byte
	wpos int

	rbuf   []byte
	rstart int
	rend   int

	sent    atomic.Uint64
	recvd   atomic.Uint64
	flushed atomic.Uint64

	fromWriter chan []byte
	toWriter   chan []byte
	writerErr  error
}

// NewConn creates a new connection around the argument connection.
func NewConn(conn io.ReadWriter) *Conn {
	c := &Conn{
		conn:       conn,
		rbuf:       make([]byte, readBufSize),
		fromWriter: make(chan []byte, numBuffers),
		toWriter:   make(chan []byte, numBuffers),
	}
	go c.writer()
	c.wbuf = <-c.fromWriter

	return c
}

func (c *Conn) writer() {
	for i := 0; i < numBuffers; i++ {
		c.fromWriter <- make([]byte, writeBufSize)
	}
	for buf := range c.toWriter {
		if _, err := c.conn.Write(buf); err != nil {
			c.writerErr = err
		}
		c.fromWriter <- buf[0:cap(buf)]
	}
	close(c.fromWriter)
}

// Stats returns a snapshot of the connection's I/O statistics.
func (c *Conn) Stats() IOStats {
	return IOStats{
		Sent:    c.sent.Load(),
		Recvd:   c.recvd.Load(),
		Flushed: c.flushed.Load(),
	}
}

// Flush hands any buffered data to the writer.
func (c *Conn) Flush() error {
	if c.wpos == 0 {
		return nil
	}
	c.sent.Add(uint64(c.wpos))
	c.toWriter <- c.wbuf[:c.wpos]

	next := <-c.fromWriter
	if c.writerErr != nil {
		return c.writerErr
	}
	c.wbuf = next
	c.wpos = 0
	c.flushed.Add(1)

	return nil
}

// Close flushes any pending data, waits for the writer to drain, and
// closes the underlying connection if it is an io.Closer.
func (c *Conn) Close() error {
	if err := c.Flush(); err != nil {
		return err
	}
	close(c.toWriter)
	for range c.fromWriter {
	}
	if c.writerErr != nil {
		return c.writerErr
	}
	if closer, ok := c.conn.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// reserve returns the next n bytes of the write buffer.
func (c *Conn) reserve(n int) ([]byte, error) {
	if n > len(c.wbuf) {
		return nil, fmt.Errorf("p2p: message of %d bytes exceeds buffer", n)
	}
	if c.wpos+n > len(c.wbuf) {
		if err := c.Flush(); err != nil {
			return nil, err
		}
	}
	buf := c.wbuf[c.wpos : c.wpos+n]
	c.wpos += n
	return buf, nil
}

// take returns the next n received bytes. The bytes are valid until
// the next receive call.
func (c *Conn) take(n int) ([]byte, error) {
	if n > len(c.rbuf) {
		return nil, fmt.Errorf("p2p: message of %d bytes exceeds buffer", n)
	}
	if c.rstart+n > c.rend {
		if err := c.fill(n); err != nil {
			return nil, err
		}
	}
	buf := c.rbuf[c.rstart : c.rstart+n]
	c.rstart += n
	return buf, nil
}

// fill reads until at least n bytes are buffered. Unconsumed data is
// moved to the beginning of the buffer.
func (c *Conn) fill(n int) error {
	copy(c.rbuf, c.rbuf[c.rstart:c.rend])
	c.rend -= c.rstart
	c.rstart = 0

	for c.rend < n {
		got, err := c.conn.Read(c.rbuf[c.rend:])
		if err != nil {
			return err
		}
		c.recvd.Add(uint64(got))
		c.rend += got
	}
	return nil
}

// SendUint32 sends an uint32 value in network byte order.
func (c *Conn) SendUint32(val int) error {
	buf, err := c.reserve(4)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(buf, uint32(val))
	return nil
}

// ReceiveUint32 receives an uint32 value.
func (c *Conn) ReceiveUint32() (int, error) {
	buf, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(buf)), nil
}

// SendData sends length-prefixed binary data.
func (c *Conn) SendData(val []byte) error {
	if err := c.SendUint32(len(val)); err != nil {
		return err
	}
	buf, err := c.reserve(len(val))
	if err != nil {
		return err
	}
	copy(buf, val)
	return nil
}

// ReceiveData receives length-prefixed binary data.
func (c *Conn) ReceiveData() ([]byte, error) {
	n, err := c.ReceiveUint32()
	if err != nil {
		return nil, err
	}
	buf, err := c.take(n)
	if err != nil {
		return nil, err
	}
	result := make([]byte, n)
	copy(result, buf)
	return result, nil
}

// SendLabel sends a wire label.
func (c *Conn) SendLabel(val wire.Label) error {
	buf, err := c.reserve(wire.LambdaBytes)
	if err != nil {
		return err
	}
	val.PutBytes(buf)
	return nil
}

// ReceiveLabel receives a wire label.
func (c *Conn) ReceiveLabel(val *wire.Label) error {
	buf, err := c.take(wire.LambdaBytes)
	if err != nil {
		return err
	}
	val.SetBytes(buf)
	return nil
}

// SendWord sends the labels of a word.
func (c *Conn) SendWord(w wire.Word) error {
	for _, l := range w {
		if err := c.SendLabel(l); err != nil {
			return err
		}
	}
	return nil
}

// ReceiveWord receives len(w) labels into w.
func (c *Conn) ReceiveWord(w wire.Word) error {
	for i := range w {
		if err := c.ReceiveLabel(&w[i]); err != nil {
			return err
		}
	}
	return nil
}
