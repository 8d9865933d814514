package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/books-catalog/cmd/api/book"
)

// Ntfy publishes book events to an ntfy topic, e.g. https://ntfy.sh/books.
type Ntfy struct {
	topicURL string
	enabled  bool
	client   *http.Client
}

func NewNtfy(enableNotifications bool, notificationsTopicURL string, client *http.Client) *Ntfy {
	return &Ntfy{
		topicURL: notificationsTopicURL,
		enabled:  enableNotifications,
		client:   client,
	}
}

/* Publishes a "New book created" message. Does nothing when notifications are disabled. */
func (ntf *Ntfy) BookCreated(ctx context.Context, b book.Book) error {
	if !ntf.enabled {
		return nil
	}

	message := fmt.Sprintf("New book created:\nTitle: %s\nAuthor: %s\nPrice: %s", b.Title, b.Author, b.Price.StringFixed(book.PriceScale))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ntf.topicURL, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("delivering book %d created message to %s: %w", b.ID, ntf.topicURL, err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Title", "New book created")

	resp, err := ntf.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering book %d created message to %s: %w", b.ID, ntf.topicURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delivering book %d created message to %s: %w", b.ID, ntf.topicURL, book.NewErrNotificationFailed(resp.StatusCode))
	}
	return nil
}
