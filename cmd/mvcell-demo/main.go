package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"mvcell_v0.1/cell"
	"mvcell_v0.1/codec"
	"mvcell_v0.1/patch"
)

// strs is the demo data type: a sequence of strings.
type strs []string

func (s strs) Clone() strs {
	return append(strs(nil), s...)
}

var (
	reader *cell.Reader[strs]
	writer *cell.Writer[strs]
)

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
)

func main() {
	// Setup Signal Handling for Graceful Shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nCaught signal, shutting down...")
		os.Exit(0)
	}()

	fmt.Println("Starting mvcell demo...")
	fmt.Println("One writer, as many readers as you like.")
	fmt.Println("")
	fmt.Println("Type HELP for available commands.")

	reader, writer = cell.New(strs{})

	scanner := bufio.NewScanner(os.Stdin)
	printPrompt()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			handleCommand(line)
		}
		printPrompt()
	}

	if err := scanner.Err(); err != nil {
		printError(fmt.Sprintf("Error reading input: %v", err))
		os.Exit(1)
	}
}

func printPrompt() {
	fmt.Printf("%s(mvcell) > %s", ColorYellow, ColorReset)
}

func printError(msg string) {
	fmt.Printf("%s%s%s\n", ColorRed, msg, ColorReset)
}

func printSuccess(msg string) {
	fmt.Printf("%s%s%s\n", ColorBlue, msg, ColorReset)
}

func handleCommand(line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}

	cmd := strings.ToUpper(parts[0])

	switch cmd {
	case "ADD":
		execAdd(parts)
	case "COMMIT":
		execCommit()
	case "PUSH":
		execPush(false)
	case "PUSHCLONE":
		execPush(true)
	case "SYNC":
		execSync()
	case "DATA":
		execData()
	case "HEAD":
		execHead()
	case "PULL":
		execPull()
	case "OVERWRITE":
		execOverwrite(parts)
	case "TAG":
		writer.Tag()
		printSuccess("OK (next push will clone)")
	case "MARK":
		execMark()
	case "MARKS":
		execMarks()
	case "DROP":
		execDrop(parts)
	case "STATUS":
		execStatus()
	case "DUMP":
		execDump(parts)
	case "HELP":
		execHelp()
	case "EXIT":
		fmt.Println("Bye.")
		os.Exit(0)
	default:
		printError(fmt.Sprintf("ERROR: unknown command '%s'", cmd))
	}
}

// Command 1: ADD — stage an append patch.
func execAdd(parts []string) {
	if len(parts) < 2 {
		printError("ERROR: missing argument <value...>")
		return
	}
	writer.Add(patch.Append[strs](parts[1:]...))
	printSuccess(fmt.Sprintf("OK (%d staged)", len(writer.Staged())))
}

// Command 2: COMMIT — apply staged patches locally.
func execCommit() {
	info := writer.Commit()
	printSuccess(fmt.Sprintf("OK (patches=%d timestamp=%d)", info.Patches, info.Timestamp))
}

// Command 3: PUSH / PUSHCLONE — publish to readers.
func execPush(clone bool) {
	var info cell.PushInfo
	if clone {
		info = writer.PushClone()
	} else {
		info = writer.Push()
	}
	printSuccess(fmt.Sprintf("OK (commits=%d reclaimed=%v timestamp=%d)",
		info.Commits, info.Reclaimed, info.Timestamp))
}

// Command 4: SYNC — commit and push in one go.
func execSync() {
	ci, pi := writer.CommitAndPush()
	printSuccess(fmt.Sprintf("OK (patches=%d commits=%d reclaimed=%v timestamp=%d)",
		ci.Patches, pi.Commits, pi.Reclaimed, pi.Timestamp))
}

// Command 5: DATA — the writer's local copy.
func execData() {
	fmt.Printf("local  ts=%d  %v\n", writer.Timestamp(), writer.Data())
}

// Command 6: HEAD — what readers currently see.
func execHead() {
	head := reader.Head()
	defer head.Release()
	fmt.Printf("head   ts=%d  %v  (holders=%d)\n",
		head.Timestamp(), head.Data(), head.Count())
}

// Command 7: PULL — discard local divergence.
func execPull() {
	info := writer.Pull()
	printSuccess(fmt.Sprintf("OK (staged=%d committed=%d discarded, timestamp %d -> %d)",
		info.StagedDiscarded, info.CommittedDiscarded,
		info.OldTimestamp, info.NewTimestamp))
}

// Command 8: OVERWRITE — replace local wholesale.
func execOverwrite(parts []string) {
	old, info := writer.Overwrite(strs(parts[1:]).Clone())
	printSuccess(fmt.Sprintf("OK (was %v, timestamp=%d)", old, info.Timestamp))
}

// Command 9: MARK — retain the published snapshot.
func execMark() {
	m := writer.Mark()
	printSuccess(fmt.Sprintf("OK (marked timestamp %d)", m.Timestamp()))
}

// Command 10: MARKS
func execMarks() {
	marks := writer.Marks()
	if len(marks) == 0 {
		fmt.Println("no marks")
		return
	}
	for _, m := range marks {
		fmt.Printf("ts=%d  %v\n", m.Timestamp(), m.Data())
	}
}

// Command 11: DROP <ts> — remove a mark.
func execDrop(parts []string) {
	if len(parts) < 2 {
		printError("ERROR: missing argument <timestamp>")
		return
	}
	ts, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		printError("ERROR: invalid timestamp")
		return
	}
	if !writer.MarkRemove(ts) {
		printError("ERROR: no mark at that timestamp")
		return
	}
	printSuccess("OK")
}

// Command 12: STATUS
func execStatus() {
	st := writer.Status()
	fmt.Printf("staged=%d committed=%d marks=%d\n", st.Staged, st.Committed, st.Marks)
	fmt.Printf("timestamp local=%d remote=%d\n", st.Timestamp, st.RemoteTimestamp)
	fmt.Printf("readers=%d head holders=%d\n", st.ReaderCount, st.HeadCount)
}

// Command 13: DUMP [json|yaml|toml] — serialize the writer.
func execDump(parts []string) {
	var c codec.Codec = codec.JSON{}
	if len(parts) >= 2 {
		switch strings.ToLower(parts[1]) {
		case "json":
			c = codec.JSON{}
		case "yaml":
			c = codec.YAML{}
		case "toml":
			c = codec.TOML{}
		default:
			printError("ERROR: unknown codec (json, yaml, toml)")
			return
		}
	}
	b, err := codec.EncodeWriter(c, writer)
	if err != nil {
		printError(fmt.Sprintf("ERROR: encode failed (%v)", err))
		return
	}
	fmt.Println(string(b))
}

func execHelp() {
	fmt.Println("Commands:")
	fmt.Println("  ADD <value...>        stage an append patch")
	fmt.Println("  COMMIT                apply staged patches locally")
	fmt.Println("  PUSH                  publish committed state")
	fmt.Println("  PUSHCLONE             publish, always clone")
	fmt.Println("  SYNC                  COMMIT + PUSH")
	fmt.Println("  DATA                  show the writer's local copy")
	fmt.Println("  HEAD                  show what readers see")
	fmt.Println("  PULL                  discard local divergence")
	fmt.Println("  OVERWRITE <value...>  replace local wholesale")
	fmt.Println("  TAG                   force next push to clone")
	fmt.Println("  MARK / MARKS / DROP   retain published snapshots")
	fmt.Println("  STATUS                writer/reader diagnostics")
	fmt.Println("  DUMP [json|yaml|toml] serialize the writer")
	fmt.Println("  HELP / EXIT")
}
