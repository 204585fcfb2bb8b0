package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"sprestore/domain/recyclebin"
	"sprestore/infrastructure/graphclient"
)

var titleStyle = color.New(color.Bold).SprintFunc()

// promptChoice renders a numbered list and reads a selection from stdin.
// Entering q quits the program.
func promptChoice[T any](rows []T, render func(T) string, title string) (T, error) {
	var zero T
	if len(rows) == 0 {
		return zero, fmt.Errorf("nothing to choose from")
	}

	fmt.Printf("\n-- %s --\n", titleStyle(title))
	for i, row := range rows {
		fmt.Printf("%3d. %s\n", i+1, render(row))
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Enter number (or q to quit): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return zero, fmt.Errorf("read selection: %w", err)
		}
		sel := strings.ToLower(strings.TrimSpace(line))
		switch sel {
		case "q", "quit", "exit":
			fmt.Println("Aborted.")
			os.Exit(0)
		}
		idx, err := strconv.Atoi(sel)
		if err != nil {
			fmt.Println("Please enter a number from the list, or q to quit.")
			continue
		}
		if idx < 1 || idx > len(rows) {
			fmt.Println("Out of range; try again.")
			continue
		}
		return rows[idx-1], nil
	}
}

func pickTeam(teams []*graphclient.Team) (*graphclient.Team, error) {
	return promptChoice(teams, func(t *graphclient.Team) string {
		return fmt.Sprintf("%s  [%s]", t.DisplayName, t.ID)
	}, "Teams")
}

func pickChannel(channels []*graphclient.Channel) (*graphclient.Channel, error) {
	return promptChoice(channels, func(c *graphclient.Channel) string {
		return fmt.Sprintf("%s (%s)  [%s]", c.DisplayName, c.MembershipType, c.ID)
	}, "Channels")
}

func pickEntry(entries []*recyclebin.Entry) (*recyclebin.Entry, error) {
	return promptChoice(entries, renderEntry, "Recycle Bin Items")
}

func renderEntry(e *recyclebin.Entry) string {
	deleted := ""
	if !e.DeletedAt.IsZero() {
		deleted = humanize.Time(e.DeletedAt)
	}
	return fmt.Sprintf("%s  |  %s  |  deleted %s  |  by %s  |  from %s",
		e.Name, humanize.Bytes(uint64(e.Size)), deleted, e.DeletedBy, e.DeletedFrom)
}
