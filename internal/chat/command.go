package chat

// Command - закрытый набор входящих событий диспетчера.
// Транспорт (вебсокет-обработчик) декодирует кадры в эти варианты,
// поэтому бизнес-логика тестируется без живых соединений.
type Command interface {
	isCommand()
}

type ConnectCommand struct {
	Conn   Conn
	UserID string
	Role   string
}

type DisconnectCommand struct {
	Conn Conn
}

type SendCommand struct {
	SenderID   string
	Content    string
	ReceiverID *string
}

func (ConnectCommand) isCommand()    {}
func (DisconnectCommand) isCommand() {}
func (SendCommand) isCommand()       {}
