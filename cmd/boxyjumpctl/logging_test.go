package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func TestSetupLoggingDisabledByDefault(t *testing.T) {
	chdirTemp(t)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	if logFile := setupLogging(false); logFile != nil {
		logFile.Close()
		t.Fatal("expected nil log file when debug=false")
	}
	if log.Writer() != io.Discard {
		t.Fatalf("expected log output to be discarded, got %v", log.Writer())
	}
	if _, err := os.Stat(logDir); !os.IsNotExist(err) {
		t.Fatal("logs directory created without debug")
	}
}

func TestSetupLoggingWritesFile(t *testing.T) {
	chdirTemp(t)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	logFile := setupLogging(true)
	if logFile == nil {
		t.Fatal("expected log file when debug=true")
	}
	defer logFile.Close()

	log.Println("spawn generation=0")
	info, err := os.Stat(filepath.Join(logDir, logFileName))
	if err != nil {
		t.Fatalf("stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected log file to contain content")
	}
	if out := log.Writer(); out == os.Stdout || out == os.Stderr {
		t.Fatal("debug logs must not go to the terminal")
	}
}

func TestSetupLoggingRotatesLargeFile(t *testing.T) {
	chdirTemp(t)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("create logs dir: %v", err)
	}
	logPath := filepath.Join(logDir, logFileName)
	if err := os.WriteFile(logPath, make([]byte, maxLogSize+1), 0o644); err != nil {
		t.Fatalf("write large log: %v", err)
	}

	logFile := setupLogging(true)
	if logFile == nil {
		t.Fatal("expected log file")
	}
	defer logFile.Close()

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("read logs dir: %v", err)
	}
	rotated := false
	for _, e := range entries {
		if e.Name() != logFileName && filepath.Ext(e.Name()) == ".log" {
			rotated = true
		}
	}
	if !rotated {
		t.Fatal("expected a rotated log file")
	}
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("stat new log: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Fatalf("new log file not rotated, size=%d", info.Size())
	}
}
