//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"errors"
	"log"
	"net"
	"time"
)

// RetryDelay specifies how long Dial waits before retrying a failed
// connection attempt.
var RetryDelay = 100 * time.Millisecond

// Listen listens for one TCP connection at addr and returns a
// connection wrapping it.
func Listen(addr string) (*Conn, error) {
	nc, err := accept(addr)
	if err != nil {
		return nil, err
	}
	return NewConn(nc), nil
}

// Dial connects to the TCP address addr. Dial keeps retrying until
// the peer accepts the connection.
func Dial(addr string) (*Conn, error) {
	nc, err := dial(addr)
	if err != nil {
		return nil, err
	}
	return NewConn(nc), nil
}

// ListenDual listens for two TCP connections, one at each address,
// and returns a full-duplex connection using a dedicated socket for
// each direction. The listening side writes to the connection
// accepted at sendAddr and reads from the one accepted at recvAddr.
func ListenDual(sendAddr, recvAddr string) (*Conn, error) {
	w, err := accept(sendAddr)
	if err != nil {
		return nil, err
	}
	r, err := accept(recvAddr)
	if err != nil {
		w.Close()
		return nil, err
	}
	return NewConn(&dual{
		r: r,
		w: w,
	}), nil
}

// DialDual connects to a peer listening with ListenDual. The
// addresses are given in the same order as to ListenDual, so the
// dialing side reads from peerSendAddr and writes to peerRecvAddr.
func DialDual(peerSendAddr, peerRecvAddr string) (*Conn, error) {
	r, err := dial(peerSendAddr)
	if err != nil {
		return nil, err
	}
	w, err := dial(peerRecvAddr)
	if err != nil {
		r.Close()
		return nil, err
	}
	return NewConn(&dual{
		r: r,
		w: w,
	}), nil
}

func accept(addr string) (net.Conn, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer listener.Close()

	nc, err := listener.Accept()
	if err != nil {
		return nil, err
	}
	log.Printf("p2p: accepted connection from %s\n", nc.RemoteAddr())
	return nc, nil
}

func dial(addr string) (net.Conn, error) {
	for {
		nc, err := net.Dial("tcp", addr)
		if err == nil {
			return nc, nil
		}
		var opErr *net.OpError
		if !errors.As(err, &opErr) || opErr.Op != "dial" {
			return nil, err
		}
		log.Printf("p2p: connect to %s failed, retrying in %s\n",
			addr, RetryDelay)
		<-time.After(RetryDelay)
	}
}

// dual implements io.ReadWriteCloser with separate sockets for
// reading and writing.
type dual struct {
	r net.Conn
	w net.Conn
}

func (d *dual) Read(data []byte) (int, error) {
	return d.r.Read(data)
}

func (d *dual) Write(data []byte) (int, error) {
	return d.w.Write(data)
}

func (d *dual) Close() error {
	err := d.w.Close()
	if err2 := d.r.Close(); err == nil {
		err = err2
	}
	return err
}
