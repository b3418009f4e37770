package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

// inspectConfig mirrors the server's BADGER_FILEPATH so the tool can be
// pointed at the same store without flags.
type inspectConfig struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"/tmp/chat-history"`
}

type storedMessage struct {
	ID      string  `json:"id"`
	From    string  `json:"from"`
	To      *string `json:"to,omitempty"`
	Content string  `json:"content"`
	At      int64   `json:"at"`
}

func main() {
	var config inspectConfig
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Config error: ", err)
	}

	dbPath := flag.String("db", config.BadgerFilepath, "Path to badger DB")
	// "pub:" by default; use "dm:" or "dm:<nick>:" to inspect direct slices
	prefix := flag.String("prefix", "pub:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Time", "From", "To", "Content"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var stored storedMessage
				if err := json.Unmarshal(v, &stored); err != nil {
					// Log and continue instead of aborting the whole scan
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				kind, to := "PUBLIC", ""
				if stored.To != nil {
					kind, to = "DM", *stored.To
				}
				table.Append([]string{
					string(item.Key()),
					kind,
					time.Unix(0, stored.At).UTC().Format("15:04:05"),
					stored.From,
					to,
					stored.Content,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)
	return badger.Open(opts)
}
