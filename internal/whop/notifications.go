package whop

import "context"

// Notifications sends community push notifications for lobby events. It
// implements the game engine's notifier contract.
type Notifications struct {
	client       *Client
	experienceID string
}

func NewNotifications(client *Client, experienceID string) *Notifications {
	return &Notifications{client: client, experienceID: experienceID}
}

// SendPush notifies the community, or quietly does nothing when no
// experience is configured.
func (n *Notifications) SendPush(ctx context.Context, title, message string) error {
	if n.experienceID == "" {
		return nil
	}
	return n.client.SendPushNotification(ctx, n.experienceID, title, message)
}
