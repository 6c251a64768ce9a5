package mailer

import (
	"log"
	"stb/src/lib"

	"github.com/wneessen/go-mail"
)

func NewMailerMessage(input *lib.SendMailInput) error {
	client, err := lib.GetSMTPClient()
	if err != nil {
		return err
	}
	msg := mail.NewMsg()
	if err := msg.FromFormat(input.FromName, input.From); err != nil {
		return err
	}
	if err := msg.To(input.To...); err != nil {
		return err
	}
	msg.Subject(input.Subject)
	if input.Html {
		msg.SetBodyString(mail.TypeTextHTML, input.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, input.Body)
	}
	if err := client.DialAndSend(msg); err != nil {
		log.Printf("Error sending mail to %v: %s\n", input.To, err.Error())
		return err
	}
	return nil
}
