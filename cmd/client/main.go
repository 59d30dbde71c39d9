// Command client is a terminal front end for the game. It plays a local
// hot-seat game with undo, or creates/joins a room on a running server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/kalive-dev/tic-tac-toe/internal/client"
	"github.com/kalive-dev/tic-tac-toe/internal/game"
)

func main() {
	cmd := &cli.Command{
		Name:  "tictactoe",
		Usage: "play tic-tac-toe locally or against a remote opponent",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Value: "ws://localhost:8080/ws",
				Usage: "WebSocket endpoint of the game server",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "local",
				Usage:  "hot-seat game on this machine, with undo",
				Action: runLocal,
			},
			{
				Name:   "create",
				Usage:  "create a room and wait for an opponent",
				Action: runCreate,
			},
			{
				Name:      "join",
				Usage:     "join a room by its code",
				ArgsUsage: "<code>",
				Action:    runJoin,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newAdapter() *client.Adapter {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return client.NewAdapter(logger)
}

func runLocal(_ context.Context, _ *cli.Command) error {
	adapter := newAdapter()

	fmt.Println("Local game. Enter a cell (0-8), u to undo, r to reset, q to quit.")

	return gameLoop(adapter, true)
}

func runCreate(ctx context.Context, cmd *cli.Command) error {
	adapter := newAdapter()
	defer adapter.Disconnect()

	code, err := adapter.CreateRoom(ctx, cmd.String("server"))
	if err != nil {
		return fmt.Errorf("could not create room: %w", err)
	}

	fmt.Printf("Room created. Share this code with your opponent: %s\n", code)
	fmt.Println("Waiting for opponent...")

	for adapter.Waiting() {
		if errMsg := adapter.Err(); errMsg != "" {
			return fmt.Errorf("connection failed: %s", errMsg)
		}
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Printf("Opponent joined. You play %s.\n", adapter.Mark())

	return gameLoop(adapter, false)
}

func runJoin(ctx context.Context, cmd *cli.Command) error {
	code := cmd.Args().First()
	if code == "" {
		return fmt.Errorf("usage: tictactoe join <code>")
	}

	adapter := newAdapter()
	defer adapter.Disconnect()

	if err := adapter.JoinRoom(ctx, cmd.String("server"), code); err != nil {
		return fmt.Errorf("could not join room: %w", err)
	}

	fmt.Printf("Joined room %s. You play %s.\n", code, adapter.Mark())

	return gameLoop(adapter, false)
}

func gameLoop(adapter *client.Adapter, allowUndo bool) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		render(adapter)

		if errMsg := adapter.Err(); errMsg != "" {
			fmt.Printf("Game over: %s\n", errMsg)
			return nil
		}

		if winner := adapter.Winner(); winner != game.EmptyCell {
			fmt.Printf("%s wins!\n", winner)
			if !allowUndo {
				return nil
			}
		} else if adapter.IsDraw() {
			fmt.Println("Draw.")
			if !allowUndo {
				return nil
			}
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "q":
			return nil
		case "u":
			adapter.UndoMove()
			continue
		case "r":
			adapter.ResetGame()
			continue
		case "":
			continue
		}

		cell, err := strconv.Atoi(input)
		if err != nil || cell < 0 || cell > 8 {
			fmt.Println("Enter a cell number between 0 and 8.")
			continue
		}

		adapter.PlayMove(cell)

		// Online, the board changes when the server's broadcast lands;
		// give it a moment before redrawing.
		if adapter.Mode() == client.ModeOnline {
			time.Sleep(150 * time.Millisecond)
		}
	}
}

func render(adapter *client.Adapter) {
	board := adapter.Board()
	line, hasLine := adapter.WinningLine()

	highlighted := make(map[int]bool, 3)
	if hasLine {
		for _, cell := range line {
			highlighted[cell] = true
		}
	}

	fmt.Println()
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			i := row*3 + col
			switch {
			case board[i] == game.EmptyCell:
				cells[col] = strconv.Itoa(i)
			case highlighted[i]:
				cells[col] = "[" + board[i] + "]"
			default:
				cells[col] = " " + board[i] + " "
			}
		}
		fmt.Printf(" %3s | %3s | %3s\n", cells[0], cells[1], cells[2])
		if row < 2 {
			fmt.Println("-----+-----+-----")
		}
	}

	if !hasLine && !adapter.IsDraw() {
		fmt.Printf("Turn: %s\n", adapter.CurrentMark())
	}
}
