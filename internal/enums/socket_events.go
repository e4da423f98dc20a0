package enums

const (
	SOCKET_EVENT_SEND_MESSAGE = "sendMessage"
	SOCKET_EVENT_NEW_MESSAGE  = "newMessage"
	SOCKET_EVENT_NOTIFICATION = "notification"
)
