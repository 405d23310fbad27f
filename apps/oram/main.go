//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// The oram command runs an ORAM session between a garbler and an
// evaluator. Both parties derive the same random access trace from
// the seed; the garbler feeds the trace as inputs, and the evaluator
// reveals each read value and verifies it against a plain reference
// memory.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime/pprof"

	"github.com/markkurossi/picogram/env"
	"github.com/markkurossi/picogram/oram"
	"github.com/markkurossi/picogram/p2p"
	"github.com/markkurossi/picogram/waksman"
	"github.com/markkurossi/picogram/wire"
)

func main() {
	log.SetFlags(0)
	if err := cmd(); err != nil {
		log.Fatal(err)
	}
}

// cmd runs the command. Errors are returned so the deferred profile
// shutdown runs before the process exits.
func cmd() error {
	evaluator := flag.Bool("e", false, "evaluator / garbler mode")
	addr := flag.String("addr", "127.0.0.1:8080", "peer address")
	addr2 := flag.String("addr2", "",
		"peer address for the second socket in dual-socket mode")
	configFile := flag.String("config", "", "configuration `file`")
	a := flag.Int("a", 4, "address width in bits")
	w := flag.Int("w", 8, "word width in bits")
	n := flag.Int("n", 256, "number of accesses")
	shuffle := flag.Int("shuffle", 0, "shuffle interval, 0 disables")
	seed := flag.Int64("seed", 42, "access trace seed")
	verbose := flag.Bool("v", false, "verbose output")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	dump := flag.Int("dump", 0, "print the Waksman network for `size` inputs")
	flag.Parse()

	if *dump > 0 {
		return dumpNetwork(*dump, *seed)
	}

	config := Config{
		Network: Network{
			Addr:  *addr,
			Addr2: *addr2,
		},
		ORAM: oram.Params{
			AddrWidth:       *a,
			WordWidth:       *w,
			NumAccesses:     *n,
			ShuffleInterval: *shuffle,
		},
		Seed: *seed,
	}
	if len(*configFile) > 0 {
		if err := LoadConfig(*configFile, &config); err != nil {
			return err
		}
	}

	if len(*cpuprofile) > 0 {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	envConfig := &env.Config{
		Verbose: *verbose,
	}

	if *evaluator {
		return evaluatorMode(&config, envConfig)
	}
	return garblerMode(&config, envConfig)
}

type op struct {
	addr  uint64
	write bool
	value uint64
}

func trace(params oram.Params, seed int64) []op {
	rnd := rand.New(rand.NewSource(seed))
	var mask uint64 = 1<<params.WordWidth - 1

	ops := make([]op, params.NumAccesses)
	for i := range ops {
		ops[i] = op{
			addr:  uint64(rnd.Intn(params.NumSlots())),
			write: rnd.Intn(2) == 1,
			value: rnd.Uint64() & mask,
		}
	}
	return ops
}

func garblerMode(config *Config, envConfig *env.Config) error {
	var conn *p2p.Conn
	var err error

	fmt.Printf("Listening for connections at %s\n", config.Network.Addr)
	if len(config.Network.Addr2) > 0 {
		conn, err = p2p.ListenDual(config.Network.Addr, config.Network.Addr2)
	} else {
		conn, err = p2p.Listen(config.Network.Addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	delta, err := wire.NewDelta(envConfig.GetRandom())
	if err != nil {
		return err
	}
	o, err := oram.NewGarbler(config.ORAM, delta, envConfig)
	if err != nil {
		return err
	}
	return session(o, conn, trace(config.ORAM, config.Seed), nil)
}

func evaluatorMode(config *Config, envConfig *env.Config) error {
	var conn *p2p.Conn
	var err error

	if len(config.Network.Addr2) > 0 {
		conn, err = p2p.DialDual(config.Network.Addr, config.Network.Addr2)
	} else {
		conn, err = p2p.Dial(config.Network.Addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	o, err := oram.NewEvaluator(config.ORAM, envConfig)
	if err != nil {
		return err
	}
	ops := trace(config.ORAM, config.Seed)

	mem := make([]uint64, config.ORAM.NumSlots())
	var failed int
	verify := func(i int, ram op, value uint64) {
		if mem[ram.addr] != value {
			if failed < 10 {
				fmt.Printf("access %d: mem[%d]=%x, expected %x\n",
					i, ram.addr, value, mem[ram.addr])
			}
			failed++
		}
		if ram.write {
			mem[ram.addr] = ram.value
		}
	}
	err = session(o, conn, ops, verify)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d accesses failed", failed, len(ops))
	}
	fmt.Printf("All %d accesses verified\n", len(ops))
	return nil
}

// session runs the access trace. The evaluator passes the verify callback
// that receives the revealed value of each access.
func session(o *oram.ORAM, conn *p2p.Conn, ops []op,
	verify func(i int, ram op, value uint64)) error {

	if err := o.Initialize(conn); err != nil {
		return err
	}
	for i, ram := range ops {
		addr, err := o.Input(o.Params().AddrWidth, ram.addr)
		if err != nil {
			return err
		}
		var bit uint64
		if ram.write {
			bit = 1
		}
		isWrite, err := o.Input(1, bit)
		if err != nil {
			return err
		}
		value, err := o.Input(o.Params().WordWidth, ram.value)
		if err != nil {
			return err
		}
		old, err := o.Access(addr, isWrite[0], value)
		if err != nil {
			return err
		}
		revealed, err := o.Reveal(old)
		if err != nil {
			return err
		}
		if verify != nil {
			verify(i, ram, revealed)
		}
	}
	if err := conn.Flush(); err != nil {
		return err
	}
	fmt.Printf("%s: %s: %v\n", o.Role(), o.Params(), o.Stats())
	o.PrintReport(os.Stdout)

	o.Close()
	return nil
}

func dumpNetwork(size int, seed int64) error {
	topology := waksman.Generate(size)
	fmt.Printf("Topology: %d inputs, %d columns\n%s\n",
		size, waksman.NumColumns(size), topology)

	perm, err := waksman.Random(size, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	routing, err := waksman.Route(perm)
	if err != nil {
		return err
	}
	fmt.Printf("Permutation: %v\n", perm)
	for col := range routing {
		fmt.Printf("%2d:", col)
		for row := range routing[col] {
			if routing.Cross(col, row) {
				fmt.Print(" X")
			} else {
				fmt.Print(" =")
			}
		}
		fmt.Println()
	}
	return nil
}
