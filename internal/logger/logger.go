package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

var Log = Logger{}

// Logger writes through one goroutine so the relay tasks never contend on the file.
// It stays silent unless COTREE_LOG names a file.
type Logger struct {
	isEnabled bool
	file      *os.File
	stream    chan string
	done      chan struct{}
	stopOnce  sync.Once
	logger    *log.Logger
	layout    string
}

func (this *Logger) Start() {
	logfilename, exists := os.LookupEnv("COTREE_LOG")
	if !exists || logfilename == "" { this.isEnabled = false; return }

	file, err := os.OpenFile(logfilename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil { log.Fatal(err) }
	this.file = file
	this.isEnabled = true

	this.logger = log.New(file, "", 0)
	this.layout = "2006-01-02 15:04:05.000"

	this.stream = make(chan string, 64)
	this.done = make(chan struct{})

	go func() {
		defer close(this.done)
		for message := range this.stream {
			this.log(message)
		}
	}()
}

func (this *Logger) log(message string) {
	now := time.Now().Format(this.layout)
	this.logger.Printf("%s %s", now, message)
}

func (this *Logger) Info(args ...string) {
	if !this.isEnabled { return }
	this.stream <- strings.Join(args, " ")
}

func (this *Logger) Error(args ...string) {
	if !this.isEnabled { return }
	this.stream <- "[error] " + strings.Join(args, " ")
}

func (this *Logger) Infof(format string, args ...any) {
	if !this.isEnabled { return }
	this.Info(fmt.Sprintf(format, args...))
}

func (this *Logger) Errorf(format string, args ...any) {
	if !this.isEnabled { return }
	this.Error(fmt.Sprintf(format, args...))
}

// Stop flushes pending lines and closes the file. Logging after Stop panics.
func (this *Logger) Stop() {
	if !this.isEnabled { return }
	this.stopOnce.Do(func() {
		close(this.stream)
		<-this.done
		this.file.Close()
	})
}
