package dimse

// SuccessCode is the envelope code the engine reports for a completed
// operation.
const SuccessCode = 0

// TagValue is one ordered entry of an outgoing find request. An empty Value
// requests the tag as a return key; a non-empty Value adds it as a match key.
type TagValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FindRequest describes a query/retrieve find operation. Tag order is
// preserved on the wire; some archives are sensitive to it.
type FindRequest struct {
	Tags []TagValue `json:"tags"`
}

// TranscodeRequest asks the engine to re-encode a stored object into the
// given transfer syntax, writing the result to Target.
type TranscodeRequest struct {
	Source         string `json:"source"`
	Target         string `json:"target"`
	TransferSyntax string `json:"transferSyntax"`
}

// Envelope is the engine's single reply to any operation. Container, when
// present, is itself a JSON-encoded array of DICOM JSON records.
type Envelope struct {
	Code      int    `json:"code"`
	Container string `json:"container,omitempty"`
	Message   string `json:"message,omitempty"`
}
