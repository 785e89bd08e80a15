// Command eepromfsck inspects (and, with -format, reformats) a
// host-emulated EEPROM-FS backing file. It is a small non-interactive
// report printer, not the interactive demonstration program spec.md's
// Non-goals place out of scope.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/embedCreativity/EEPROM-FS/config"
	"github.com/embedCreativity/EEPROM-FS/device/hostfile"
	"github.com/embedCreativity/EEPROM-FS/eepromfs"
)

func main() {
	configPath := flag.String("config", "", "path to a device YAML config file")
	doFormat := flag.Bool("format", false, "format the device before reporting")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: eepromfsck -config path/to/device.yaml [-format]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	adapter := hostfile.New(cfg.Device.Path, cfg.Device.SizeBytes)
	fs := eepromfs.New(adapter, logger)
	defer adapter.Close()

	if *doFormat {
		fs.EnableWrite()
		if !fs.Format() {
			fmt.Printf("format failed: %s\n", fs.Status())
			os.Exit(1)
		}
		fmt.Println("formatted")
	}

	fmt.Printf("status: %s\n", fs.Status())
	fmt.Printf("capacity: %d bytes used of %d\n", fs.UsedCapacity(), fs.TotalCapacity())
	fmt.Printf("active files: %d\n", fs.ActiveFileCount())
	for slot, info := range fs.ActiveFiles() {
		fmt.Printf("  slot %2d: start=%d size=%d\n", slot, info.Start, info.Size)
	}
}
