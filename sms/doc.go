/*
The package sms turns the text output of the gnokii command line tool into structured SMS
messages and reassembles linked (concatenated) messages from their parts.

The text is expected in the format printed by gnokii --getsms <memory> <position>:

	6. Inbox Message (Unread)
	Date/time: 03/09/2017 18:13:49 +0700
	Sender: +79526191914 Msg Center: +79139869993
	Linked (1/2):
	Hello

Every part of a linked message occupies one memory slot. The slots of one message are
contiguous, so the span of the whole message can be computed from the slot of any part and
its (current/total) counter.

Restrictions:
Only inbox messages are supported. PDU data is never decoded here, the tool does that.
*/
package sms
