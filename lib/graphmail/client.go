// Package graphmail reads and deletes messages in a shared mailbox
// through the Microsoft Graph API. The robot's work orders arrive as
// self-service emails in a subfolder of that mailbox.
package graphmail

import (
	"context"
	"fmt"
	"net/url"
	"proptax-robot/lib/telemetry"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/graphmail")

var ErrFolderNotFound = fmt.Errorf("mail folder not found")

type Config struct {
	TenantId string `json:"tenant_id"`
	ClientId string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// overridable for testing, default to the public cloud endpoints
	GraphUrl string `json:"graph_url"`
	LoginUrl string `json:"login_url"`
}

type Client struct {
	http  *resty.Client
	login *resty.Client
	cfg   Config
}

func NewClient(config Config) *Client {
	if config.GraphUrl == "" {
		config.GraphUrl = "https://graph.microsoft.com/v1.0"
	}
	if config.LoginUrl == "" {
		config.LoginUrl = "https://login.microsoftonline.com"
	}

	http := resty.New()
	http.SetBaseURL(config.GraphUrl)
	http.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(http, "graphmail/http")

	login := resty.New()
	login.SetBaseURL(config.LoginUrl)
	login.SetTimeout(time.Second * 30)

	return &Client{http: http, login: login, cfg: config}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login acquires a delegated token with the resource-owner password
// grant and attaches it to all later requests.
func (c *Client) Login(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	var token tokenResponse
	res, err := c.login.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": "password",
			"client_id":  c.cfg.ClientId,
			"username":   c.cfg.Username,
			"password":   c.cfg.Password,
			"scope":      "https://graph.microsoft.com/.default",
		}).
		SetResult(&token).
		Post(fmt.Sprintf("/%s/oauth2/v2.0/token", c.cfg.TenantId))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request token")
		return err
	}
	if res.IsError() {
		err := fmt.Errorf("graph login: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	c.http.SetAuthToken(token.AccessToken)
	return nil
}

type Message struct {
	Id      string
	Subject string
	Sender  string
	Body    string
}

type graphMessage struct {
	Id      string `json:"id"`
	Subject string `json:"subject"`
	From    struct {
		EmailAddress struct {
			Address string `json:"address"`
		} `json:"emailAddress"`
	} `json:"from"`
	Body struct {
		Content string `json:"content"`
	} `json:"body"`
}

type listResponse[T any] struct {
	Value []T `json:"value"`
}

type graphFolder struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Messages lists the messages in the given folder of the mailbox.
// folderPath is slash separated and matched on display names, e.g.
// "Indbakke/Ejendomsbeskatning".
func (c *Client) Messages(ctx context.Context, mailbox, folderPath string) ([]Message, error) {
	ctx, span := tracer.Start(ctx, "Messages")
	defer span.End()

	span.SetAttributes(
		attribute.String("mailbox", mailbox),
		attribute.String("folder", folderPath),
	)

	folderId, err := c.resolveFolder(ctx, mailbox, folderPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve folder")
		return nil, err
	}

	var list listResponse[graphMessage]
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("$select", "id,subject,from,body").
		SetQueryParam("$top", "50").
		SetResult(&list).
		Get(fmt.Sprintf(
			"/users/%s/mailFolders/%s/messages",
			url.PathEscape(mailbox), url.PathEscape(folderId),
		))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list messages")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("list messages: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	messages := make([]Message, len(list.Value))
	for i, m := range list.Value {
		messages[i] = Message{
			Id:      m.Id,
			Subject: m.Subject,
			Sender:  m.From.EmailAddress.Address,
			Body:    m.Body.Content,
		}
	}
	return messages, nil
}

func (c *Client) Delete(ctx context.Context, mailbox, messageId string) error {
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()

	span.SetAttributes(attribute.String("message_id", messageId))

	res, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf(
			"/users/%s/messages/%s",
			url.PathEscape(mailbox), url.PathEscape(messageId),
		))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete message")
		return err
	}
	if res.IsError() {
		err := fmt.Errorf("delete message: unexpected status %s", res.Status())
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// walks the folder tree one display name at a time, Graph has no
// endpoint that takes a full path
func (c *Client) resolveFolder(ctx context.Context, mailbox, folderPath string) (string, error) {
	segments := strings.Split(folderPath, "/")

	endpoint := fmt.Sprintf("/users/%s/mailFolders", url.PathEscape(mailbox))
	var folderId string

	for _, segment := range segments {
		var list listResponse[graphFolder]
		res, err := c.http.R().
			SetContext(ctx).
			SetResult(&list).
			Get(endpoint)
		if err != nil {
			return "", err
		}
		if res.IsError() {
			return "", fmt.Errorf("list folders: unexpected status %s", res.Status())
		}

		folderId = ""
		for _, f := range list.Value {
			if f.DisplayName == segment {
				folderId = f.Id
				break
			}
		}
		if folderId == "" {
			return "", fmt.Errorf("%w: %s", ErrFolderNotFound, folderPath)
		}

		endpoint = fmt.Sprintf(
			"/users/%s/mailFolders/%s/childFolders",
			url.PathEscape(mailbox), url.PathEscape(folderId),
		)
	}

	return folderId, nil
}
