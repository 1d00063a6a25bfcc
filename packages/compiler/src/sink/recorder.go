package sink

import "strings"

// Recorder is a Sink that keeps every instruction it receives
type Recorder struct {
	Instructions []Instruction
}

var _ Sink = (*Recorder)(nil)

func (r *Recorder) OpenElement(tag, key string, static, dynamic []Attr) {
	r.Instructions = append(r.Instructions, Instruction{Kind: InstructionOpen, Tag: tag, Key: key, Static: static, Dynamic: dynamic})
}

func (r *Recorder) VoidElement(tag, key string, static, dynamic []Attr) {
	r.Instructions = append(r.Instructions, Instruction{Kind: InstructionVoid, Tag: tag, Key: key, Static: static, Dynamic: dynamic})
}

func (r *Recorder) CloseElement(tag string) {
	r.Instructions = append(r.Instructions, Instruction{Kind: InstructionClose, Tag: tag})
}

func (r *Recorder) Text(value string) {
	r.Instructions = append(r.Instructions, Instruction{Kind: InstructionText, Text: value})
}

// Reset drops everything recorded so far
func (r *Recorder) Reset() {
	r.Instructions = nil
}

// String lists the recorded instructions one per line, indented by element
// depth.
func (r *Recorder) String() string {
	var b strings.Builder
	depth := 0
	for _, ins := range r.Instructions {
		if ins.Kind == InstructionClose && depth > 0 {
			depth--
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(ins.String())
		b.WriteString("\n")
		if ins.Kind == InstructionOpen {
			depth++
		}
	}
	return b.String()
}

// Multi forwards every instruction to each of its sinks in order
type Multi []Sink

var _ Sink = Multi(nil)

func (m Multi) OpenElement(tag, key string, static, dynamic []Attr) {
	for _, s := range m {
		s.OpenElement(tag, key, static, dynamic)
	}
}

func (m Multi) VoidElement(tag, key string, static, dynamic []Attr) {
	for _, s := range m {
		s.VoidElement(tag, key, static, dynamic)
	}
}

func (m Multi) CloseElement(tag string) {
	for _, s := range m {
		s.CloseElement(tag)
	}
}

func (m Multi) Text(value string) {
	for _, s := range m {
		s.Text(value)
	}
}
