// Command inspect dumps the Badger key space of a courier database for
// debugging: accounts, threads and messages, one table row per record.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"courier/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	prefix := flag.String("prefix", "", "Prefix to scan (empty scans everything)")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.Cyan.Printf("Scanning %s (prefix %q)\n", *dbPath, *prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Detail"})
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
			key := string(item.Key())

			err := item.Value(func(v []byte) error {
				kind, detail := describe(key, v)
				table.Append([]string{key, kind, detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Scan failed: ", err)
	}

	table.Render()
}

// describe decodes a record according to its key prefix. Index entries carry
// their target in the key itself, so the value is mostly empty for them.
func describe(key string, value []byte) (string, string) {
	switch {
	case strings.HasPrefix(key, "user:"):
		var u repositories.User
		if err := json.Unmarshal(value, &u); err != nil {
			return "USER", fmt.Sprintf("unreadable: %v", err)
		}
		return "USER", fmt.Sprintf("%s <%s>", u.Username, u.Email)
	case strings.HasPrefix(key, "thread:"):
		var t repositories.DiskThread
		if err := json.Unmarshal(value, &t); err != nil {
			return "THREAD", fmt.Sprintf("unreadable: %v", err)
		}
		return "THREAD", strings.Join(t.Participants, ", ")
	case strings.HasPrefix(key, "msg:"):
		var m repositories.DiskMessage
		if err := json.Unmarshal(value, &m); err != nil {
			return "MESSAGE", fmt.Sprintf("unreadable: %v", err)
		}
		return "MESSAGE", fmt.Sprintf("%s: %s", m.SenderID, m.Content)
	case strings.HasPrefix(key, "idx:"):
		return "INDEX", string(value)
	default:
		return "UNKNOWN", ""
	}
}
