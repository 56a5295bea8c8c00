/*
 * Copyright 2025 Comcast Cable Communications Management, LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

const postPayload string = "`{\"host\": \"${host}\"}`"

const indexTmpl string = `<html>
  <head>
    <title>ServerTech PDU Exporter</title>
    <style>
      .links, .build-info {
        display: flex;
      }
      h3, p {
        padding-right: 1em;
      }
      label {
        display: inline-block;
        width: 75px;
      }
      form label {
        margin: 10px;
      }
      form input {
        margin: 10px;
      }
    </style>
  </head>
  <body>
    <h1>ServerTech PDU Exporter</h1>
    <div class="build-info">
      <p><b>build date:</b> {{ .Date }}</p>
      <p><b>revision:</b> {{ .GitRevision }}</p>
      <p><b>version:</b> {{ .GitVersion }}</p>
      <p><b>drivers:</b> {{ range .Drivers }}{{ . }} {{ end }}</p>
    </div>
    <div class="links">
      <h3><a href="ignored">Ignored Hosts</a></h3>
      <h3><a href="metrics">Metrics</a></h3>
    </div>
    <h3>Scrape</h3>
    <form action="scrape">
      <label>Target:</label> <input type="text" name="target" placeholder="ip, fqdn or inventory name"><br>
      <label>Profile:</label> <input type="text" name="credential_profile" placeholder="optional credential profile"><br>
      <input type="submit" value="Submit">
    </form>
    <h3>Device</h3>
    <form id="device" onsubmit="this.action = 'device/' + this.getter.value; this.getter.disabled = true;">
      <label>Target:</label> <input type="text" name="target" placeholder="ip, fqdn or inventory name"><br>
      <label>Getter:</label> <select name="getter">
        <option>facts</option>
        <option>environment</option>
        <option>interfaces</option>
        <option>interfaces_ip</option>
        <option>users</option>
        <option>config</option>
      </select><br>
      <input type="submit" value="Submit">
    </form>
  </body>
</html>
`

const ignoredTmpl string = `<html>
<head>
  <title>Ignored PDUs</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta http-equiv="refresh" content="60">
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@4.6.1/dist/css/bootstrap.min.css">
  <script src="https://ajax.googleapis.com/ajax/libs/jquery/3.6.0/jquery.min.js"></script>
  <style>
    body {
      padding: 1rem;
    }
    .spinner-border {
      width: 1.2rem;
      height: 1.2rem;
    }
    .error-text {
      color: red;
      font-style: oblique;
    }
  </style>
</head>
<body>
  <h1>Ignored PDUs</h1>
  <p>PDUs land here when they reject their credentials. They are not scraped until removed.</p>
  <p><a href="../">Home</a></p>
  <table class="table table-sm">
    <thead>
      <tr><th>Target</th><th>Endpoint</th><th>Profile</th><th>Since</th><th></th><th></th></tr>
    </thead>
    <tbody>
      {{ range . }}
      <tr>
        <td>{{ .Name }}</td>
        <td>{{ .Endpoint }}</td>
        <td>{{ if .CredentialProfile }}{{ .CredentialProfile }}{{ else }}static{{ end }}</td>
        <td>{{ .Since.Format "2006-01-02 15:04:05 MST" }}</td>
        <td>
          <button type="button" class="btn btn-sm btn-outline-primary" onclick="testConn('{{ .Name }}')">Test</button>
          <button type="button" class="btn btn-sm btn-outline-danger" onclick="remove('{{ .Name }}')">Remove</button>
        </td>
        <td>
          <span id="{{ .Name }}-spinner" class="spinner-border" hidden></span>
          <span id="{{ .Name }}-result" hidden></span>
          <span id="{{ .Name }}-error" class="error-text" hidden></span>
        </td>
      </tr>
      {{ else }}
      <tr><td colspan="6">No PDU is ignored.</td></tr>
      {{ end }}
    </tbody>
  </table>
<script>
  function show(host, ok, err) {
    document.getElementById(host+"-spinner").hidden = true;
    const icon = document.getElementById(host+"-result");
    icon.hidden = false;
    icon.innerHTML = ok ? "&#9989;" : "&#10060;";
    if (err) {
      const errorText = document.getElementById(host+"-error");
      errorText.hidden = false;
      errorText.innerText = err;
    }
  }

  function failure(host) {
    return (data) => {
      let msg = data.statusText;
      try { msg = JSON.parse(data.responseText).error; } catch (e) {}
      show(host, false, msg);
    };
  }

  function testConn(host) {
    document.getElementById(host+"-spinner").hidden = false;
    $.post("ignored/test-conn", ` + postPayload + `, (data) => {
      const resp = JSON.parse(data);
      show(host, resp.connectionTest === true, resp.error);
    }).fail(failure(host));
  }

  function remove(host) {
    $.post("ignored/remove", ` + postPayload + `, () => location.reload()).fail(failure(host));
  }
</script>
</body>
</html>
`
