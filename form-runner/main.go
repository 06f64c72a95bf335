package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	_ "github.com/joho/godotenv/autoload"

	"github.com/askline/askline"
	"github.com/askline/askline/convert"
	"github.com/askline/askline/form"
	"github.com/askline/askline/history"
	"github.com/askline/askline/internal/term"
	"github.com/askline/askline/logging"
	"github.com/askline/askline/source"
)

const sampleForm = `title: New machine
fields:
  - name: hostname
    label: Hostname
    type: string
    required: true
  - name: cpus
    label: CPU count
    type: int
    default: "4"
  - name: disk
    label: Disk size
    type: string
    options: [small, medium, large]
    default: medium
  - name: boot_timeout
    label: Boot timeout
    type: duration
    default: 30s
  - name: token
    label: API token
    type: string
    secret: true
`

func main() {
	var (
		formPath     = flag.String("form", "", "Path to a form definition YAML file")
		validateOnly = flag.Bool("validate", false, "Validate the form definition and exit")
		sample       = flag.Bool("sample", false, "Print a sample form definition and exit")
		historyPath  = flag.String("history", "", "Path to the answer history database")
		noHistory    = flag.Bool("no-history", false, "Do not record answers")
		recent       = flag.Int("recent", 0, "Show the N most recent recorded answers and exit")
		purge        = flag.Bool("purge", false, "Delete all recorded answers and exit")
		rlHistory    = flag.String("readline-history", "", "Path to the readline line-editing history file")
		debug        = flag.Bool("debug", false, "Enable debug logging")
	)

	flag.Parse()

	logger := logging.NewLogger(*debug)

	if *sample {
		fmt.Print(sampleForm)
		return
	}

	// .env (loaded on start) and environment variables provide defaults
	// for unset flags.
	if *formPath == "" {
		*formPath = os.Getenv("ASKLINE_FORM")
	}
	if *historyPath == "" {
		if env := os.Getenv("ASKLINE_HISTORY"); env != "" {
			*historyPath = env
		} else {
			*historyPath = history.DefaultPath()
		}
	}

	if *recent > 0 || *purge {
		store, err := history.Open(*historyPath)
		if err != nil {
			log.Fatalf("Failed to open history: %v", err)
		}
		defer store.Close()

		if *purge {
			if err := store.Purge(); err != nil {
				log.Fatalf("Failed to purge history: %v", err)
			}
			logger.Info("Answer history purged")
			return
		}

		entries, err := store.Recent(*recent)
		if err != nil {
			log.Fatalf("Failed to read history: %v", err)
		}
		printRecent(entries)
		return
	}

	if *formPath == "" {
		term.PrintError(term.NewUserError(
			"no form definition given",
			"pass -form <file.yaml>, set ASKLINE_FORM, or try -sample"))
		os.Exit(1)
	}

	reg := convert.NewRegistry()

	f, err := form.Load(*formPath)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}
	if err := f.Validate(reg); err != nil {
		term.PrintError(err)
		os.Exit(1)
	}
	if *validateOnly {
		logger.Info("Form %q is valid (%d fields)", f.Title, len(f.Fields))
		return
	}

	reader := interactiveReader(*rlHistory)
	defer reader.Close()
	if *debug {
		reader.SetObserver(logger.Observer())
	}

	if f.Title != "" {
		fmt.Println(term.C.Bold(f.Title))
	}

	answers, err := f.Run(reader, reg)
	if err != nil {
		term.PrintError(err)
		os.Exit(1)
	}

	printAnswers(answers)

	if !*noHistory {
		recordAnswers(logger, *historyPath, answers)
	}
}

// interactiveReader builds the best reader for the terminal: piped input gets
// a plain stdin reader, a terminal gets readline, with a custom history file
// when one was given.
func interactiveReader(rlHistory string) *askline.Reader {
	if !term.DetectTTY(os.Stdin) || !term.DetectTTY(os.Stdout) {
		return askline.Console()
	}
	if rlHistory != "" {
		if rl, err := source.NewReadlineWithHistory("", rlHistory); err == nil {
			return askline.NewReader(rl, askline.NewWriterSink(os.Stdout))
		}
	}
	return askline.Interactive()
}

func recordAnswers(logger *logging.Logger, path string, answers []form.Answer) {
	store, err := history.Open(path)
	if err != nil {
		logger.Error("Failed to open history: %v", err)
		return
	}
	defer store.Close()

	for _, a := range answers {
		entry := &history.Entry{
			Prompt:   a.Label,
			TypeName: a.Type,
			Value:    a.Text,
			Secret:   a.Secret,
			Attempts: a.Attempts,
		}
		if err := store.Record(entry); err != nil {
			logger.Error("Failed to record answer %s: %v", a.Name, err)
		}
	}
	logger.Debug("Recorded %d answers to %s", len(answers), path)
}

func printAnswers(answers []form.Answer) {
	t := table.NewWriter()
	t.SetStyle(table.StyleColoredBright)
	t.AppendHeader(table.Row{"Field", "Type", "Value", "Attempts"})

	for _, a := range answers {
		value := a.Text
		if a.Secret {
			value = "••••••"
		}
		t.AppendRow(table.Row{
			a.Name,
			a.Type,
			term.Ellipsize(value, 40),
			a.Attempts,
		})
	}

	fmt.Println(t.Render())
}

func printRecent(entries []*history.Entry) {
	if len(entries) == 0 {
		fmt.Println("[*] No recorded answers")
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleColoredBright)
	t.AppendHeader(table.Row{"Prompt", "Type", "Value", "Attempts", "Recorded"})

	for _, e := range entries {
		value := e.Value
		if e.Secret {
			value = "••••••"
		}
		t.AppendRow(table.Row{
			e.Prompt,
			e.TypeName,
			term.Ellipsize(value, 40),
			e.Attempts,
			time.Unix(e.CreatedAt, 0).Format("2006-01-02 15:04:05"),
		})
	}

	fmt.Println(t.Render())
}
