package service

import (
	"fmt"
	"strings"

	"github.com/snotevid/video-notes-go/internal/models"
)

// Content is the analyzable text block fed to note generation, annotated
// with its provenance so the generator can adjust its instructions.
type Content struct {
	Text           string
	FromTranscript bool
}

// metadataNote is appended to synthesized content so readers of the stored
// block can tell it was not transcript-derived.
const metadataNote = "Note: This analysis is based on the video's title, description, and metadata since transcript was not available."

// synthesizeContent builds an analyzable text block from video metadata when
// no usable transcript exists.
func synthesizeContent(info *models.VideoInfo) Content {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Video Title: %s\n\n", info.Title)

	if info.ChannelTitle != "" {
		fmt.Fprintf(&sb, "Channel: %s\n\n", info.ChannelTitle)
	}

	if info.Description != "" {
		fmt.Fprintf(&sb, "Video Description:\n%s\n\n", info.Description)
	}

	if len(info.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n\n", strings.Join(info.Tags, ", "))
	}

	fmt.Fprintf(&sb, "Duration: %s\n\n", info.Duration)
	sb.WriteString(metadataNote)

	return Content{Text: sb.String(), FromTranscript: false}
}

// demoVideoID always receives the canned demo transcript, keeping the full
// pipeline demonstrable without a reachable caption service.
const demoVideoID = "demo123"

const demoTranscript = `This is a demo educational video about artificial intelligence and machine learning.

In this video, we explore the fundamentals of AI and how machine learning algorithms work. We start by understanding what artificial intelligence means - it's the simulation of human intelligence processes by machines, especially computer systems.

Machine learning is a subset of AI that enables computers to learn and improve from experience without being explicitly programmed. There are three main types of machine learning: supervised learning, unsupervised learning, and reinforcement learning.

Supervised learning uses labeled training data to learn a mapping function from input variables to output variables. Common examples include email spam detection and image recognition.

Unsupervised learning finds hidden patterns in data without labeled examples. Clustering and association are popular unsupervised learning techniques.

Reinforcement learning is about taking suitable actions to maximize reward in a particular situation. It's used in game playing, robotics, and autonomous vehicles.

Deep learning, which uses neural networks with multiple layers, has revolutionized fields like computer vision and natural language processing. Applications include self-driving cars, voice assistants, and medical diagnosis.

The future of AI holds great promise but also challenges around ethics, job displacement, and ensuring AI systems are safe and beneficial for humanity.`
