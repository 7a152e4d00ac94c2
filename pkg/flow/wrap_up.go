package flow

import (
	"github.com/carebridge/intake/pkg/domain"
	"github.com/carebridge/intake/pkg/schema"
)

// NodeWrapUp thanks the patient and summarizes before ending the call.
const NodeWrapUp = "wrap_up"

const farewellMessage = "Thank you for your time. Goodbye!"

// WrapUpNode creates the closing node. It collects no structured fields;
// the function exists only so the model can signal it is done.
func (f *Flow) WrapUpNode() *domain.Node {
	return mustNode(&domain.Node{
		Name: NodeWrapUp,
		TaskMessages: []domain.Message{
			domain.SystemMessage(
				"Thank the patient for their time and summarize the key information collected. " +
					"Let them know that this information will be reviewed by their healthcare provider " +
					"before their appointment. Ask if they have any questions before ending the call."),
		},
		FunctionName:        "finish_conversation",
		FunctionDescription: "End the conversation",
		Fields:              schema.Schema{},
		Handler: func(args map[string]any) (any, error) {
			return struct{}{}, nil
		},
		OnResult: func(args map[string]any, result any, sess *domain.Session) (*domain.Outcome, error) {
			return domain.Advance(f.EndNode(farewellMessage)), nil
		},
	})
}
