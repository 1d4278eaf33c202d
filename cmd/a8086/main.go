// Command a8086 disassembles or interprets MINIX a.out 8086 executables.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/retrotools/a8086/aout"
	"github.com/retrotools/a8086/arch/cpu/x86"
	"github.com/retrotools/a8086/buildinfo"
	"github.com/retrotools/a8086/cli"
	"github.com/retrotools/a8086/log"
)

// Build metadata, set by the linker at release time.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

type fileArgs struct {
	Path  string `flag:"f" usage:"a.out image to load" required:"true"`
	Debug bool   `flag:"debug" usage:"increase trace verbosity, repeatable"`
}

func main() {
	cmd := cli.NewCommand("a8086", "decode and run MINIX a.out 8086 executables")
	cmd.SetVersion(buildinfo.Version(version, commit, date))
	cmd.AddSubcommand("disasm", "print the instructions in an image's text segment", disasmCommand)
	cmd.AddSubcommand("run", "interpret an image to completion", runCommand)
	os.Exit(cmd.Execute(os.Args[1:]))
}

// countDebugFlags counts repeated --debug occurrences directly, since the
// flag package's BoolVar collapses repeats to their last value and FlagSet
// offers no counting flag type.
func countDebugFlags(args []string) int {
	count := 0
	for _, a := range args {
		if a == "--debug" || a == "-debug" {
			count++
		}
	}
	return count
}

func debugLevelFor(count int) log.Level {
	if count > 0 {
		return log.DebugLevel
	}
	return log.InfoLevel
}

func parseFileArgs(name string, args []string) (fileArgs, *cli.FlagSet, error) {
	opts := fileArgs{}
	fs := cli.NewFlagSet("a8086 " + name)
	fs.AddSection("Options", &opts)
	_, err := fs.Parse(args)
	return opts, fs, err
}

func disasmCommand(args []string) int {
	opts, fs, err := parseFileArgs("disasm", args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.ShowUsage()
		return 1
	}

	_, _, text, err := loadImage(opts.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	d := x86.NewDisassembler(text)
	for !d.Done() {
		event := d.Next()
		fmt.Println(event.String())
	}
	return 0
}

func runCommand(args []string) int {
	opts, fs, err := parseFileArgs("run", args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.ShowUsage()
		return 1
	}

	logger := log.NewWithConfig(log.Config{Level: debugLevelFor(countDebugFlags(args))})

	header, raw, text, err := loadImage(opts.Path)
	if err != nil {
		logger.Fatal(err.Error())
		return 1
	}

	memory := x86.NewMemory()
	memory.LoadBytes(0, text)
	if data, ok := header.Data(raw); ok {
		memory.LoadBytes(uint32(len(text)), data)
	}

	cpu := x86.New(memory, x86.WithInitialIP(uint16(header.Entry)))
	interp := x86.NewInterpreter(cpu)
	interp.Syscalls = stdoutWriter{}
	interp.Trace = func(e x86.TraceEvent) {
		fmt.Println(e.InterpreterString())
	}

	err = interp.Run()
	if err == nil {
		return 0
	}
	var exitErr *x86.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	logger.Fatal(err.Error())
	return 1
}

func loadImage(path string) (aout.Header, []byte, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return aout.Header{}, nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	header, err := aout.Parse(raw)
	if err != nil {
		return aout.Header{}, nil, nil, err
	}
	text, ok := header.Text(raw)
	if !ok {
		return aout.Header{}, nil, nil, fmt.Errorf("%s: text segment runs past end of file", path)
	}
	return header, raw, text, nil
}

// stdoutWriter renders MINIX write() syscalls to the process's own stdout.
type stdoutWriter struct{}

func (stdoutWriter) WriteSyscall(fd int, addr uint16, length int, data []byte) {
	if fd != 1 {
		return
	}
	os.Stdout.Write(data)
}
