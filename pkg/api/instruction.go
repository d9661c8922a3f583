package api

import "fmt"

// Opcode идентифицирует тип инструкции, передаваемой между клиентом и сервером рендеринга.
type Opcode string

const (
	OpAppendTag    Opcode = "APPEND_TAG"     // добавить элемент (args: tag, id, [correlation])
	OpAppendText   Opcode = "APPEND_TEXT"    // дописать текст в элемент
	OpSetText      Opcode = "SET_TEXT"       // заменить содержимое элемента текстом
	OpSetStyle     Opcode = "SET_STYLE"      // установить CSS свойство (args: property, value)
	OpAddStyleRule Opcode = "ADD_STYLE_RULE" // добавить CSS правило (args: selector, declarations)
	OpDelete       Opcode = "DELETE"         // удалить элемент вместе с потомками
	OpGetContent   Opcode = "GET_CONTENT"    // запросить текстовое содержимое элемента
	OpGetByID      Opcode = "GET_BY_ID"      // найти элемент по id (args: id)

	OpLocationReturn Opcode = "LOCATION_RETURN" // ответ на GET_BY_ID
	OpContentReturn  Opcode = "CONTENT_RETURN"  // ответ на GET_CONTENT

	OpDialog       Opcode = "DIALOG"        // информационный диалог (args: title, text)
	OpDialogInput  Opcode = "DIALOG_INPUT"  // диалог ввода (args: title, prompt, value)
	OpDialogReturn Opcode = "DIALOG_RETURN" // ответ диалога ввода (args: text)

	OpEventRequest Opcode = "EVENT_REQUEST" // подписка на событие (args: event, [correlation])
	OpEvent        Opcode = "EVENT"         // уведомление о событии

	OpFrameClose Opcode = "FRAME_CLOSE" // фрейм закрыт, сессия завершается
)

// Location is a server-assigned handle of an element in the document tree.
// Zero addresses the body of the session's top-level frame.
type Location uint64

// Body is the location of the frame body.
const Body Location = 0

// Requestor is an application-chosen tag echoed back by the server in replies
// and event notifications.
type Requestor int64

// Instruction is the single message type carried by the session channel in both directions.
type Instruction struct {
	Opcode    Opcode    `json:"opcode"`
	Args      []string  `json:"args,omitempty"`
	Requestor Requestor `json:"requestor"`
	Location  Location  `json:"location"`
}

// NewInstruction builds an instruction.
func NewInstruction(op Opcode, requestor Requestor, location Location, args ...string) Instruction {
	return Instruction{
		Opcode:    op,
		Requestor: requestor,
		Location:  location,
		Args:      args,
	}
}

// Arg returns the n-th argument or an empty string when it is absent.
func (i Instruction) Arg(n int) string {
	if n < 0 || n >= len(i.Args) {
		return ""
	}
	return i.Args[n]
}

func (i Instruction) String() string {
	return fmt.Sprintf("%s(requestor=%d, location=%d, args=%d)", i.Opcode, i.Requestor, i.Location, len(i.Args))
}
