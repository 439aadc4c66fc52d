package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/noah-isme/register-share-api/internal/attendance"
	"github.com/noah-isme/register-share-api/internal/chat"
	"github.com/noah-isme/register-share-api/internal/client"
	"github.com/noah-isme/register-share-api/internal/models"
	"github.com/noah-isme/register-share-api/internal/store"
)

const usage = `register-cli <command> [flags]

Teacher commands:
  create    -name <class name>                       create a class with the sample roster
  classes                                            list local classes
  mark      -class <id> -month <m> -day <d> -student <sid>   cycle a mark (blank -> P -> A -> blank)
  holiday   -class <id> -month <m> -day <d>          toggle a holiday
  stats     -class <id> -month <m>                   per-student present/absent totals
  share     -class <id>                              publish and print the share code
  lock      -code <code> -locked <true|false>        lock or unlock chat (teacher)
  export    -class <id> -file <path>                 write a class backup file
  import    -file <path>                             restore a class from a backup file

Viewer commands:
  view      -code <code>                             fetch and print a shared register
  codes                                              list saved codes
  chat      -code <code> [-teacher]                  interactive polling chat

Common flags:
  -server   registry base URL (default http://localhost:8080/api/v1)
  -store    local store file (default ~/.register-share/register.json)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cmd := os.Args[1]
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	server := fs.String("server", "http://localhost:8080/api/v1", "registry base URL")
	storePath := fs.String("store", defaultStorePath(), "local store file")
	name := fs.String("name", "", "class name")
	classID := fs.String("class", "", "class id")
	month := fs.String("month", "", "month name")
	day := fs.Int("day", 0, "day of month")
	studentID := fs.String("student", "", "student id")
	code := fs.String("code", "", "share code")
	locked := fs.Bool("locked", true, "lock state")
	asTeacher := fs.Bool("teacher", false, "chat with teacher authority")
	file := fs.String("file", "", "backup file path")
	fs.Parse(os.Args[2:]) //nolint:errcheck

	local, err := store.Open(*storePath)
	if err != nil {
		fatal(err)
	}
	registry := client.NewSyncClient(*server)
	ctx := context.Background()

	switch cmd {
	case "create":
		runCreate(local, *name)
	case "classes":
		runClasses(local)
	case "mark":
		runMark(local, *classID, *month, *day, *studentID)
	case "holiday":
		runHoliday(local, *classID, *month, *day)
	case "stats":
		runStats(local, *classID, *month)
	case "share":
		runShare(ctx, local, registry, *classID)
	case "lock":
		runLock(ctx, registry, *code, *locked)
	case "export":
		runExport(local, *classID, *file)
	case "import":
		runImport(local, *file)
	case "view":
		runView(ctx, local, registry, *code)
	case "codes":
		runCodes(local)
	case "chat":
		runChat(ctx, local, registry, *code, *asTeacher)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runCreate(local *store.LocalStore, name string) {
	if name == "" {
		fatalf("-name is required")
	}
	class := attendance.NewClass(name)
	if err := local.UpsertClass(*class); err != nil {
		fatal(err)
	}
	fmt.Printf("created %q (%s) with %d students\n", class.Name, class.ID, len(class.Students))
}

func runClasses(local *store.LocalStore) {
	classes := local.Classes()
	if len(classes) == 0 {
		fmt.Println("no classes yet; run: register-cli create -name \"Grade 5-A\"")
		return
	}
	for _, class := range classes {
		shared := ""
		if class.ShareCode != "" {
			shared = "  code=" + class.ShareCode
		}
		fmt.Printf("%s  %s  students=%d%s\n", class.ID, class.Name, len(class.Students), shared)
	}
}

func runMark(local *store.LocalStore, classID, month string, day int, studentID string) {
	class := mustClass(local, classID)
	requireMonth(month)
	if day <= 0 || studentID == "" {
		fatalf("-day and -student are required")
	}

	reg := attendance.Register{Class: class, Year: time.Now().Year()}
	reg.Advance(month, studentID, day)
	if err := local.UpsertClass(*class); err != nil {
		fatal(err)
	}

	status := reg.Status(month, studentID, day)
	if status == "" {
		status = "unmarked"
	}
	fmt.Printf("%s day %d: %s\n", month, day, status)
}

func runHoliday(local *store.LocalStore, classID, month string, day int) {
	class := mustClass(local, classID)
	requireMonth(month)
	if day <= 0 {
		fatalf("-day is required")
	}

	reg := attendance.Register{Class: class, Year: time.Now().Year()}
	reg.ToggleHoliday(month, day)
	if err := local.UpsertClass(*class); err != nil {
		fatal(err)
	}

	if reg.IsHoliday(month, day) {
		fmt.Printf("%s day %d is now a holiday\n", month, day)
	} else {
		fmt.Printf("%s day %d is a working day again\n", month, day)
	}
}

func runStats(local *store.LocalStore, classID, month string) {
	class := mustClass(local, classID)
	requireMonth(month)

	reg := attendance.Register{Class: class, Year: time.Now().Year()}
	printStats(&reg, month)
}

func runShare(ctx context.Context, local *store.LocalStore, registry *client.SyncClient, classID string) {
	class := mustClass(local, classID)

	snap := &models.ShareSnapshot{SchoolClass: *class}
	code, err := registry.Publish(ctx, snap)
	if err != nil {
		fatal(err)
	}

	class.ShareCode = code
	if err := local.UpsertClass(*class); err != nil {
		fatal(err)
	}
	fmt.Printf("share code: %s\n", code)
}

func runLock(ctx context.Context, registry *client.SyncClient, code string, locked bool) {
	requireCode(code)
	if err := registry.SetChatLock(ctx, code, locked, models.TeacherSenderID); err != nil {
		fatal(err)
	}
	if locked {
		fmt.Println("chat locked")
	} else {
		fmt.Println("chat unlocked")
	}
}

func runExport(local *store.LocalStore, classID, file string) {
	class := mustClass(local, classID)
	if file == "" {
		fatalf("-file is required")
	}
	raw, err := local.ExportClass(class.ID)
	if err != nil {
		fatal(err)
	}
	if err := os.WriteFile(file, raw, 0o600); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %q to %s\n", class.Name, file)
}

func runImport(local *store.LocalStore, file string) {
	if file == "" {
		fatalf("-file is required")
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		fatal(err)
	}
	class, err := local.ImportClass(raw)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("imported %q (%s) with %d students\n", class.Name, class.ID, len(class.Students))
}

func runView(ctx context.Context, local *store.LocalStore, registry *client.SyncClient, code string) {
	requireCode(code)

	snap, err := registry.Fetch(ctx, code)
	if err != nil {
		fatal(err)
	}
	if err := local.SaveCode(snap.ShareCode, snap.Name); err != nil {
		fatal(err)
	}

	fmt.Printf("%s  (shared %s)\n", snap.Name, time.UnixMilli(snap.SharedAt).Format(time.RFC822))
	reg := attendance.Register{Class: &snap.SchoolClass, Year: time.Now().Year(), ReadOnly: true}

	months := make([]string, 0, len(snap.Attendance))
	for m := range snap.Attendance {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool {
		return attendance.MonthIndex(months[i]) < attendance.MonthIndex(months[j])
	})
	for _, m := range months {
		fmt.Printf("\n%s\n", m)
		printStats(&reg, m)
	}
}

func runCodes(local *store.LocalStore) {
	codes := local.SavedCodes()
	if len(codes) == 0 {
		fmt.Println("no saved codes")
		return
	}
	for _, saved := range codes {
		fmt.Printf("%s  %s\n", saved.Code, saved.Name)
	}
}

func runChat(ctx context.Context, local *store.LocalStore, registry *client.SyncClient, code string, asTeacher bool) {
	requireCode(code)

	senderID := models.TeacherSenderID
	senderName := "Teacher"
	if !asTeacher {
		id, err := local.SessionID()
		if err != nil {
			fatal(err)
		}
		senderID = id
		senderName = "Viewer"
	}

	session := chat.NewSession(registry, code, senderID, senderName)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var lastCount int
	poller := chat.NewPoller(session, 3*time.Second, nil, func(update chat.Update) {
		for _, msg := range update.Messages[min(lastCount, len(update.Messages)):] {
			printMessage(msg)
		}
		lastCount = len(update.Messages)
	})
	go poller.Run(ctx)

	fmt.Println("type a message and press enter; ctrl-c to leave")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if _, err := session.Send(ctx, line); err != nil {
			fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func printMessage(msg models.ChatMessage) {
	when := time.UnixMilli(msg.Timestamp).Format("15:04")
	if msg.Type == models.MessageTypeText {
		fmt.Printf("[%s] %s: %s\n", when, msg.SenderName, msg.Content)
		return
	}
	fmt.Printf("[%s] %s sent %s (%s)\n", when, msg.SenderName, msg.FileName, msg.Type)
}

func printStats(reg *attendance.Register, month string) {
	for _, student := range reg.Class.Students {
		stats := reg.Stats(month, student.ID)
		fmt.Printf("  %-4s %-24s P=%d A=%d\n", student.RollNo, student.Name, stats.Presents, stats.Absents)
	}
}

func mustClass(local *store.LocalStore, id string) *models.SchoolClass {
	if id == "" {
		fatalf("-class is required")
	}
	class, ok := local.Class(id)
	if !ok {
		fatalf("unknown class %q; run: register-cli classes", id)
	}
	return class
}

func requireMonth(month string) {
	if attendance.MonthIndex(month) < 0 {
		fatalf("-month must be a month name, e.g. March")
	}
}

func requireCode(code string) {
	if code == "" {
		fatalf("-code is required")
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "register.json"
	}
	return filepath.Join(home, ".register-share", "register.json")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
