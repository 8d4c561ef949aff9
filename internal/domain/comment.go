package domain

import "time"

// Comment is one node of a discussion thread attached to a technology
// or blip. Replies form a tree of unbounded depth; a parent exclusively
// owns its ordered list of children, so no back-references are needed.
type Comment struct {
	// ID uniquely identifies the comment within its tree.
	ID string `json:"id"`

	// Author is the opaque identity of the comment's writer.
	Author string `json:"author"`

	// Text is the comment body.
	Text string `json:"text"`

	// Timestamp records when the comment was written.
	Timestamp time.Time `json:"timestamp"`

	// Replies are the ordered child comments.
	Replies []*Comment `json:"replies,omitempty"`
}

// FindByID searches the comment's subtree depth-first and returns the
// comment with the given id, or nil when absent.
func (c *Comment) FindByID(id string) *Comment {
	if c == nil {
		return nil
	}
	if c.ID == id {
		return c
	}
	for _, reply := range c.Replies {
		if found := reply.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// AddReply appends the reply to the children of the comment identified
// by parentID anywhere in the subtree. It reports whether the parent
// was found.
func (c *Comment) AddReply(parentID string, reply *Comment) bool {
	parent := c.FindByID(parentID)
	if parent == nil {
		return false
	}
	parent.Replies = append(parent.Replies, reply)
	return true
}

// Size returns the number of comments in the subtree, including the
// receiver.
func (c *Comment) Size() int {
	if c == nil {
		return 0
	}
	n := 1
	for _, reply := range c.Replies {
		n += reply.Size()
	}
	return n
}
