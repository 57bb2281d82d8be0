package twilio

import (
	"encoding/xml"
)

// MessagingResponse is the TwiML document returned from the /sms webhook.
// Twilio delivers each <Message> element back to the sender as a reply text.
type MessagingResponse struct {
	XMLName  xml.Name `xml:"Response"`
	Messages []string `xml:"Message"`
}

// Message appends a reply text to the response.
func (r *MessagingResponse) Message(body string) {
	r.Messages = append(r.Messages, body)
}

// String renders the document with the XML declaration Twilio expects.
func (r *MessagingResponse) String() string {
	out, err := xml.Marshal(r)
	if err != nil {
		// The document is two fixed elements around caller strings; Marshal
		// cannot fail on it.
		panic(err)
	}
	return xml.Header + string(out)
}
