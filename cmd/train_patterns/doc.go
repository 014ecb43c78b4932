// Package main provides a demo program that trains a spatial pooler's codes into a
// classifier until recognition of the training patterns converges, then tests the
// trained pair and checks that the pooler gave the same codes both times.
package main
