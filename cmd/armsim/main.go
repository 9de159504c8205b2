// Command armsim loads a raw ARMv4 binary image into memory and runs it
// against the cpu/bus interpreter core.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/armsim/armv4/bus"
	"github.com/armsim/armv4/config"
	"github.com/armsim/armv4/cpu"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Path to a TOML config file (default: platform config path)")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum ticks before halt (0: use config value)")
		memorySize  = flag.Uint("memory-size", 0, "RAM size in bytes (0: use config value)")
		entryPoint  = flag.String("entry", "", "Entry point address, hex with 0x prefix or decimal (empty: use config value)")
		verbose     = flag.Bool("verbose", false, "Log the cycle number and PC at every tick")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("armsim %s (%s)\n", Version, Commit)
		return
	}

	image := flag.Arg(0)
	if image == "" {
		fmt.Fprintln(os.Stderr, "usage: armsim [flags] <binary-image>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	applyOverrides(cfg, *maxCycles, *memorySize, *entryPoint)

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "armsim: ", log.Ltime|log.Lmicroseconds)
	}

	data, err := os.ReadFile(image) // #nosec G304 -- user-supplied image path
	if err != nil {
		log.Fatalf("reading image: %v", err)
	}

	ram := bus.NewRAM(cfg.Execution.MemorySize)
	if err := ram.LoadBytes(cfg.Execution.EntryPoint, data); err != nil {
		log.Fatalf("loading image: %v", err)
	}

	c := cpu.New()
	c.R[cpu.PC] = cfg.Execution.EntryPoint // the two warm-up ticks bring R15 to the "+8" view

	if err := run(c, ram, cfg.Execution.MaxCycles, logger); err != nil {
		dumpRegisters(c)
		log.Fatalf("halted: %v", err)
	}

	dumpRegisters(c)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func applyOverrides(cfg *config.Config, maxCycles uint64, memorySize uint, entry string) {
	if maxCycles != 0 {
		cfg.Execution.MaxCycles = maxCycles
	}
	if memorySize != 0 {
		cfg.Execution.MemorySize = uint32(memorySize)
	}
	if entry != "" {
		if v, err := parseAddress(entry); err == nil {
			cfg.Execution.EntryPoint = v
		}
	}
}

func parseAddress(s string) (uint32, error) {
	if strings.HasPrefix(s, "0x") {
		v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 32)
		return uint32(v), err
	}
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}

// run drives the tick loop until max cycles are exhausted or the CPU
// reports an error. The host owns the run loop and the bus.
func run(c *cpu.CPU, b bus.Bus, maxCycles uint64, logger *log.Logger) error {
	for cycles := uint64(0); maxCycles == 0 || cycles < maxCycles; cycles++ {
		if logger != nil {
			logger.Printf("cycle=%d pc=0x%08X", cycles, c.R[cpu.PC])
		}
		if err := c.Tick(b); err != nil {
			return err
		}
	}
	return nil
}

func dumpRegisters(c *cpu.CPU) {
	for i := 0; i < 16; i += 4 {
		fmt.Printf("R%-2d=%08X R%-2d=%08X R%-2d=%08X R%-2d=%08X\n",
			i, c.R[i], i+1, c.R[i+1], i+2, c.R[i+2], i+3, c.R[i+3])
	}
	fmt.Printf("CPSR=%08X (N=%v Z=%v C=%v V=%v mode=%v)\n",
		c.GetCPSR(), c.CPSR.N, c.CPSR.Z, c.CPSR.C, c.CPSR.V, c.CPSR.Mode)
}
