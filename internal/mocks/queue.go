package mocks

import "sync"

// MockMessageQueue is a mock implementation of ports.MessageQueue
type MockMessageQueue struct {
	mu                sync.Mutex
	PublishedMessages map[string][][]byte
	Subscribers       map[string][]func([]byte) error
	PublishFunc       func(topic string, data []byte) error
	SubscribeFunc     func(topic string, handler func([]byte) error) error
	CloseFunc         func() error
}

func NewMockMessageQueue() *MockMessageQueue {
	return &MockMessageQueue{
		PublishedMessages: make(map[string][][]byte),
		Subscribers:       make(map[string][]func([]byte) error),
	}
}

func (m *MockMessageQueue) Publish(topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(topic, data)
	}
	m.mu.Lock()
	m.PublishedMessages[topic] = append(m.PublishedMessages[topic], data)
	m.mu.Unlock()
	return nil
}

func (m *MockMessageQueue) Subscribe(topic string, handler func([]byte) error) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(topic, handler)
	}
	m.mu.Lock()
	m.Subscribers[topic] = append(m.Subscribers[topic], handler)
	m.mu.Unlock()
	return nil
}

func (m *MockMessageQueue) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// GetPublishedMessages returns all messages published to a topic
func (m *MockMessageQueue) GetPublishedMessages(topic string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PublishedMessages[topic]
}

// MockBroadcaster records realtime pushes per user
type MockBroadcaster struct {
	mu   sync.Mutex
	Sent map[string][]interface{}
}

func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{Sent: make(map[string][]interface{})}
}

func (m *MockBroadcaster) SendToUser(userID string, message interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent[userID] = append(m.Sent[userID], message)
}

func (m *MockBroadcaster) Count(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent[userID])
}
