package process

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
)

// Unbounded FIFO of lines shared between one drain goroutine and the
// coordinator. Pushes never block on the consumer.
type lineQueue struct {
	mu    sync.Mutex
	lines []string
}

// Appends a line to the tail of the queue.
func (q *lineQueue) push(line string) {
	q.mu.Lock()
	q.lines = append(q.lines, line)
	q.mu.Unlock()
}

// Removes and returns every queued line without waiting for more.
func (q *lineQueue) takeAll() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	lines := q.lines
	q.lines = nil
	return lines
}

// Reads r line by line into q until end-of-data.
//
// Lines keep their trailing newline so the accumulated output is
// byte-identical to what the process wrote. A final line without a newline
// is still delivered. A reader closed underneath the loop (cancellation) is
// treated as end-of-data.
func drain(r io.Reader, q *lineQueue) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			q.push(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}
