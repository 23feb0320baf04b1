package mailtemplates

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"strings"
	texttemplate "text/template"

	root "github.com/FebaRodrigues/final-fit-sub000"
	"github.com/FebaRodrigues/final-fit-sub000/notifications"
)

// availableTemplates maps a template key to the raw HTML content of the
// embedded template file. The key is the filename without the extension.
var availableTemplates map[TemplateFile][]byte

// TemplateFile represents an email template key. Every email template should
// have a key that identifies it, which is the filename without the extension.
type TemplateFile string

// MailTemplate struct represents an email template. It includes the file key
// and the notification placeholder to be sent. The file key is the filename
// of the template without the extension. The notification placeholder includes
// the plain body template to be used as a fallback for email clients that do
// not support HTML, and the mail subject.
type MailTemplate struct {
	File        TemplateFile
	Placeholder notifications.Notification
}

// Load reads the email templates from the embedded assets directory and
// indexes them by filename.
func Load() error {
	htmlFiles := make(map[TemplateFile][]byte)
	if err := fs.WalkDir(root.Assets, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// only process regular files with a ".html" extension
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			return nil
		}
		content, err := fs.ReadFile(root.Assets, path)
		if err != nil {
			return err
		}
		// remove the ".html" extension from the filename
		filename := strings.TrimSuffix(entry.Name(), ".html")
		htmlFiles[TemplateFile(filename)] = content
		return nil
	}); err != nil {
		return err
	}
	availableTemplates = htmlFiles
	return nil
}

// Available returns the keys of the loaded templates.
func Available() []TemplateFile {
	keys := make([]TemplateFile, 0, len(availableTemplates))
	for key := range availableTemplates {
		keys = append(keys, key)
	}
	return keys
}

// ExecTemplate method checks if the template file exists in the available
// mail templates and if it does, it executes the template with the data
// provided. If it doesn't exist, it returns an error. If the plain body
// placeholder is not empty, it executes the plain text template with the
// data provided. It returns the notification with the body and plain body
// filled with the data provided.
func (mt MailTemplate) ExecTemplate(data any) (*notifications.Notification, error) {
	content, ok := availableTemplates[mt.File]
	if !ok {
		return nil, fmt.Errorf("template %q not found", mt.File)
	}
	// create a new notification with the subject and plain body of the
	// template placeholder
	n := &notifications.Notification{
		Subject:   mt.Placeholder.Subject,
		PlainBody: mt.Placeholder.PlainBody,
	}
	tmpl, err := htmltemplate.New(string(mt.File)).Parse(string(content))
	if err != nil {
		return nil, err
	}
	// inflate the template with the data
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		return nil, err
	}
	n.Body = buf.String()
	// if the plain body is not empty, execute the template with the data
	// provided
	if n.PlainBody != "" {
		tmpl, err := texttemplate.New("plain").Parse(n.PlainBody)
		if err != nil {
			return nil, err
		}
		buf := new(bytes.Buffer)
		if err := tmpl.Execute(buf, data); err != nil {
			return nil, err
		}
		n.PlainBody = buf.String()
	}
	return n, nil
}
